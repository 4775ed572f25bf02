package usecase

import (
	"context"
	"errors"
	"time"

	"MacroBot/internal/domain/models"
	"MacroBot/pkg/cache"
	applogger "MacroBot/pkg/logger"
	"MacroBot/pkg/util"
)

// LookupPattern matches every cached lookup payload.
const LookupPattern = "lookup:*"

func lookupKey(code string) string { return cache.Key("lookup", code) }

// CachedLookup serves payloads from cache. Apologies are never stored so a
// recovered store is visible on the next query.
type CachedLookup struct {
	next  Lookup
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

var _ Lookup = (*CachedLookup)(nil)

func NewCachedLookup(next Lookup, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedLookup {
	return &CachedLookup{next: next, cache: c, ttl: ttl, l: l}
}

func (c *CachedLookup) HandleCode(ctx context.Context, code string) models.Payload {
	code = util.NormalizeCode(code)
	if c.ttl <= 0 || c.cache == nil {
		return c.next.HandleCode(ctx, code)
	}

	key := lookupKey(code)
	var p models.Payload
	err := c.cache.Get(ctx, key, &p)
	if err == nil {
		return p
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.l.Warn("lookup cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	p = c.next.HandleCode(ctx, code)
	if errors.Is(p.Outcome.Err(), models.ErrStoreUnavailable) {
		return p
	}
	if err := c.cache.Set(ctx, key, p, c.ttl); err != nil {
		c.l.Warn("lookup cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return p
}
