package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"MacroBot/internal/domain/models"
	"MacroBot/internal/repository"
	"MacroBot/pkg/cache"
	applogger "MacroBot/pkg/logger"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"
)

type fakeSource struct {
	series map[string][]models.Point
	fail   map[string]bool
	calls  []string
}

func (f *fakeSource) FetchSeries(_ context.Context, seriesID string) ([]models.Point, error) {
	f.calls = append(f.calls, seriesID)
	if f.fail[seriesID] {
		return nil, fmt.Errorf("fetch %s: %w", seriesID, models.ErrUpstreamUnavailable)
	}
	return f.series[seriesID], nil
}

// flakyStore fails upserts for one record date.
type flakyStore struct {
	*repository.MemoryStore
	failDate string
}

func (f *flakyStore) Upsert(ctx context.Context, o models.Observation) (models.UpsertResult, error) {
	if o.RecordDate == f.failDate {
		return "", fmt.Errorf("upsert: %w", models.ErrStoreUnavailable)
	}
	return f.MemoryStore.Upsert(ctx, o)
}

func TestFilterNewer(t *testing.T) {
	got := FilterNewer([]models.Point{{Date: "2023-12-31", Value: "5"}, {Date: "2024-01-02", Value: "6"}}, "2024-01-01")
	want := []models.Point{{Date: "2024-01-02", Value: "6"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}

	got = FilterNewer([]models.Point{
		{Date: "2024-01-01", Value: "1"},
		{Date: "2024-02-01", Value: "."},
		{Date: "2024-03-01", Value: "2"},
	}, "2024-01-01")
	assert.Equal(t, []models.Point{{Date: "2024-03-01", Value: "2"}}, got)
}

func syncFixture() (*repository.MemoryStore, *fakeSource) {
	store := newStore()
	store.PutIndicator(models.Indicator{Code: "UR", Name: "Unemployment Rate", Source: "FRED", SourceSeriesID: "UNRATE"})
	store.PutIndicator(models.Indicator{Code: "CPI", Name: "Consumer Price Index", Source: "FRED", SourceSeriesID: "CPIAUCSL"})
	store.PutIndicator(models.Indicator{Code: "NFP", Name: "Nonfarm Payrolls", Source: "FRED", SourceSeriesID: "PAYEMS"})
	store.PutIndicator(models.Indicator{Code: "MCSI", Name: "Consumer Sentiment", Source: "UMICH", SourceSeriesID: "UMCSENT"})
	store.PutIndicator(models.Indicator{Code: "JOLTS", Name: "JOLTS", Source: "FRED"})
	store.Seed(models.Observation{IndicatorCode: "UR", RecordDate: "2024-04-01", Value: "3.9", LastModified: fixedNow.Add(-60 * 24 * time.Hour)})

	src := &fakeSource{
		series: map[string][]models.Point{
			"UNRATE": {
				{Date: "2024-03-01", Value: "3.8"},
				{Date: "2024-04-01", Value: "3.9"},
				{Date: "2024-05-01", Value: "4.0"},
				{Date: "2024-06-01", Value: "."},
			},
			"PAYEMS": {{Date: "1939-01-01", Value: "29923"}},
		},
		fail: map[string]bool{"CPIAUCSL": true},
	}
	return store, src
}

func TestSyncRunIsolatesFailingSeries(t *testing.T) {
	store, src := syncFixture()
	m := newFakeMetrics()
	mc := newMemoryCache(t)
	assert.Equal(t, nil, mc.Set(context.Background(), "lookup:UR", "stale", time.Hour))

	s := NewIngestionSync(store, src, "FRED", m, applogger.Nop(),
		WithSyncClock(clock), WithSyncLock(mc, time.Minute), WithInvalidator(mc))
	report, err := s.Run(context.Background())
	assert.Equal(t, nil, err)

	assert.Equal(t, SyncReport{Series: 3, Failed: 1, Inserted: 2}, report)
	assert.Equal(t, []string{"CPIAUCSL", "PAYEMS", "UNRATE"}, src.calls)
	assert.Equal(t, 1, m.errors["upstream"])
	assert.Equal(t, 1, m.ingested["UNRATE/inserted"])
	assert.Equal(t, 1, m.syncs)

	last, ok, _ := store.LastRecordDate(context.Background(), "UR")
	assert.Equal(t, true, ok)
	assert.Equal(t, "2024-05-01", last)

	changes, _ := NewUpdateScanner(store, 0, 0).Scan(context.Background(), fixedNow)
	assert.Equal(t, 2, len(changes))

	var stale string
	assert.Equal(t, true, errors.Is(mc.Get(context.Background(), "lookup:UR", &stale), cache.ErrCacheMiss))
}

func TestSyncRunIsIdempotent(t *testing.T) {
	store, src := syncFixture()
	s := NewIngestionSync(store, src, "FRED", newFakeMetrics(), applogger.Nop(), WithSyncClock(clock))

	_, _ = s.Run(context.Background())
	report, err := s.Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, report.Written())
}

func TestSyncRunSkipsFailedRows(t *testing.T) {
	mem, src := syncFixture()
	src.series["UNRATE"] = append(src.series["UNRATE"], models.Point{Date: "2024-07-01", Value: "4.1"})
	store := &flakyStore{MemoryStore: mem, failDate: "2024-05-01"}
	m := newFakeMetrics()

	report, err := NewIngestionSync(store, src, "FRED", m, applogger.Nop(), WithSyncClock(clock)).Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, report.RowErrors)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, m.ingested["UNRATE/failed"])

	last, _, _ := mem.LastRecordDate(context.Background(), "UR")
	assert.Equal(t, "2024-07-01", last)
}

func TestSyncRunAbortsWhenStoreDown(t *testing.T) {
	store, src := syncFixture()
	store.FailWith(errors.New("down"))

	_, err := NewIngestionSync(store, src, "FRED", newFakeMetrics(), applogger.Nop()).Run(context.Background())
	assert.Equal(t, true, errors.Is(err, models.ErrStoreUnavailable))
	assert.Equal(t, 0, len(src.calls))
}

func TestSyncRunSkipsWhileLocked(t *testing.T) {
	store, src := syncFixture()
	mc := newMemoryCache(t)
	_, _, _ = mc.TryLock(context.Background(), "job:sync", time.Minute)

	report, err := NewIngestionSync(store, src, "FRED", newFakeMetrics(), applogger.Nop(), WithSyncLock(mc, time.Minute)).Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, SyncReport{}, report)
	assert.Equal(t, 0, len(src.calls))
}
