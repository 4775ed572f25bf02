package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroBot/internal/domain/models"
	drepo "MacroBot/internal/domain/repository"
	"MacroBot/internal/service/fred"
	applogger "MacroBot/pkg/logger"
	"MacroBot/pkg/util"
)

const syncLockKey = "job:sync"

// DefaultStart is the watermark of an indicator with no stored rows.
const DefaultStart = "1900-01-01"

// Invalidator drops cached entries matching a glob.
type Invalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SyncReport summarises one ingestion run.
type SyncReport struct {
	Series    int
	Failed    int
	Inserted  int
	Updated   int
	Unchanged int
	RowErrors int
}

func (r SyncReport) Written() int { return r.Inserted + r.Updated }

// IngestionSync pulls observations newer than each indicator's last stored
// date and upserts them. Failures are isolated per series and per row.
type IngestionSync struct {
	store        drepo.Store
	source       drepo.SeriesSource
	sourceName   string
	defaultStart string
	locker       drepo.Locker
	lockTTL      time.Duration
	invalidator  Invalidator
	metrics      drepo.Metrics
	l            *applogger.Logger
	now          func() time.Time
}

type SyncOption func(*IngestionSync)

func WithSyncLock(locker drepo.Locker, ttl time.Duration) SyncOption {
	return func(s *IngestionSync) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithInvalidator drops cached lookups after a run that wrote rows.
func WithInvalidator(inv Invalidator) SyncOption {
	return func(s *IngestionSync) { s.invalidator = inv }
}

func WithDefaultStart(date string) SyncOption {
	return func(s *IngestionSync) { s.defaultStart = date }
}

func WithSyncClock(now func() time.Time) SyncOption {
	return func(s *IngestionSync) { s.now = now }
}

func NewIngestionSync(store drepo.Store, source drepo.SeriesSource, sourceName string, metrics drepo.Metrics, l *applogger.Logger, opts ...SyncOption) *IngestionSync {
	s := &IngestionSync{
		store:        store,
		source:       source,
		sourceName:   sourceName,
		defaultStart: DefaultStart,
		metrics:      metrics,
		l:            l.With(applogger.String("component", "sync")),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FilterNewer drops missing markers and keeps points strictly after lastKnown.
func FilterNewer(points []models.Point, lastKnown string) []models.Point {
	out := make([]models.Point, 0, len(points))
	for _, p := range points {
		if p.Value == fred.Missing || p.Value == "" {
			continue
		}
		if util.DateAfter(p.Date, lastKnown) {
			out = append(out, p)
		}
	}
	return out
}

// Sync fetches seriesID and returns the points newer than lastKnown.
func (s *IngestionSync) Sync(ctx context.Context, seriesID, lastKnown string) ([]models.Point, error) {
	points, err := s.source.FetchSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	return FilterNewer(points, lastKnown), nil
}

// Run syncs every indicator of the configured source. The error is non-nil
// only when the run could not start.
func (s *IngestionSync) Run(ctx context.Context) (SyncReport, error) {
	var report SyncReport
	start := time.Now()
	defer func() { s.metrics.RecordLatency("sync", time.Since(start).Seconds()) }()

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, syncLockKey, s.lockTTL)
		if err != nil {
			s.l.Error("sync lock failed", applogger.Error(err))
			return report, fmt.Errorf("sync lock: %w", err)
		}
		if !ok {
			s.l.Info("sync already running, skipping")
			return report, nil
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), syncLockKey, token); err != nil {
				s.l.Warn("sync unlock failed", applogger.Error(err))
			}
		}()
	}

	indicators, err := s.store.ListSyncable(ctx, s.sourceName)
	if err != nil {
		s.l.Error("list syncable indicators failed", applogger.Error(err))
		s.metrics.RecordError("store")
		return report, fmt.Errorf("list indicators: %w", err)
	}

	for _, ind := range indicators {
		report.Series++
		if err := s.syncOne(ctx, ind, &report); err != nil {
			report.Failed++
		}
	}

	if report.Written() > 0 && s.invalidator != nil {
		if err := s.invalidator.DeleteByPattern(ctx, LookupPattern); err != nil {
			s.l.Warn("lookup cache invalidation failed", applogger.Error(err))
		}
	}

	s.metrics.RecordSync(s.now())
	s.l.Info("sync finished",
		applogger.Int("series", report.Series),
		applogger.Int("failed", report.Failed),
		applogger.Int("inserted", report.Inserted),
		applogger.Int("updated", report.Updated),
		applogger.Int("unchanged", report.Unchanged),
		applogger.Int("row_errors", report.RowErrors),
	)
	return report, nil
}

func (s *IngestionSync) syncOne(ctx context.Context, ind models.Indicator, report *SyncReport) error {
	series := ind.SourceSeriesID

	lastKnown, ok, err := s.store.LastRecordDate(ctx, ind.Code)
	if err != nil {
		s.l.Error("watermark read failed", applogger.String("code", ind.Code), applogger.Error(err))
		s.metrics.RecordError("store")
		return err
	}
	if !ok {
		lastKnown = s.defaultStart
	}

	points, err := s.Sync(ctx, series, lastKnown)
	if err != nil {
		s.l.Error("series fetch failed", applogger.String("code", ind.Code), applogger.String("series", series), applogger.Error(err))
		s.metrics.RecordError("upstream")
		return err
	}

	var inserted, updated int
	for _, p := range points {
		res, err := s.store.Upsert(ctx, models.Observation{IndicatorCode: ind.Code, RecordDate: p.Date, Value: p.Value})
		if err != nil {
			s.l.Error("observation upsert failed",
				applogger.String("code", ind.Code), applogger.String("date", p.Date), applogger.Error(err))
			s.metrics.RecordIngested(series, "failed")
			report.RowErrors++
			continue
		}
		s.metrics.RecordIngested(series, string(res))
		switch res {
		case models.UpsertInserted:
			inserted++
		case models.UpsertUpdated:
			updated++
		default:
			report.Unchanged++
		}
	}
	report.Inserted += inserted
	report.Updated += updated

	s.l.Info("series synced",
		applogger.String("code", ind.Code),
		applogger.String("series", series),
		applogger.String("since", lastKnown),
		applogger.Int("fetched", len(points)),
		applogger.Int("inserted", inserted),
		applogger.Int("updated", updated),
	)
	return nil
}
