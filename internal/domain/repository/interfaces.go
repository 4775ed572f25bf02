package repository

import (
	"context"
	"time"

	"MacroBot/internal/domain/models"
)

// IndicatorStore reads operator-maintained indicator metadata.
type IndicatorStore interface {
	// GetIndicator returns nil, nil when code has no row.
	GetIndicator(ctx context.Context, code string) (*models.Indicator, error)
	// ListSyncable returns indicators of source with a series id, ordered by code.
	ListSyncable(ctx context.Context, source string) ([]models.Indicator, error)
}

// ObservationStore is the time-series side of the store. Every read orders
// by record date descending.
type ObservationStore interface {
	Latest(ctx context.Context, code string, limit int) ([]models.Point, error)
	// YearOverYear returns percent change against the row twelve months
	// earlier, for dates that have one.
	YearOverYear(ctx context.Context, code string, limit int) ([]models.Point, error)
	// Band returns MAX and MIN of value over record dates >= since.
	Band(ctx context.Context, code string, since string) (models.Band, error)
	// JoltsPivot returns dates where any of the three codes has a row.
	JoltsPivot(ctx context.Context, openings, quits, layoffs string, limit int) ([]models.JoltsRow, error)
	// ChangedSince returns rows with last_modified >= since, most recent first.
	ChangedSince(ctx context.Context, since time.Time, limit int) ([]models.ChangeRecord, error)
	// LastRecordDate returns the newest record date, ok=false when none.
	LastRecordDate(ctx context.Context, code string) (string, bool, error)
	// Upsert inserts or overwrites and advances last_modified only when the
	// stored value differs.
	Upsert(ctx context.Context, obs models.Observation) (models.UpsertResult, error)
}

type Store interface {
	IndicatorStore
	ObservationStore
	Health(ctx context.Context) error
	Close() error
}

// SeriesSource fetches every observation of an upstream series, sentinels
// included.
type SeriesSource interface {
	FetchSeries(ctx context.Context, seriesID string) ([]models.Point, error)
}

// Messenger sends through the chat platform.
type Messenger interface {
	Reply(ctx context.Context, replyToken string, blocks []string) error
	Push(ctx context.Context, to string, text string) error
}

// Locker guards scheduled jobs against overlapping runs. A run releases
// only the lock it took, so one that outlives its ttl leaves a newer
// holder alone.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

type Metrics interface {
	RecordLookup(strategy, outcome string)
	RecordIngested(series, result string)
	RecordNotification(result string)
	RecordError(kind string)
	RecordSync(at time.Time)
	RecordLatency(op string, seconds float64)
}
