package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"MacroBot/internal/domain/models"
	domrepo "MacroBot/internal/domain/repository"
	"MacroBot/pkg/util"

	"github.com/shopspring/decimal"
)

// MemoryStore implements repository.Store in process with the same
// semantics as PostgresStore. It backs the use case and handler tests;
// no provider selects it, since the subcommands share data only through
// Postgres.
type MemoryStore struct {
	mu         sync.RWMutex
	indicators map[string]models.Indicator
	obs        map[string]map[string]models.Observation // code -> date -> row
	now        func() time.Time
	fail       error
}

var _ domrepo.Store = (*MemoryStore)(nil)

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		indicators: make(map[string]models.Indicator),
		obs:        make(map[string]map[string]models.Observation),
		now:        now,
	}
}

// PutIndicator adds or replaces indicator metadata.
func (m *MemoryStore) PutIndicator(ind models.Indicator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indicators[ind.Code] = ind
}

// Seed stores obs exactly as given, LastModified included.
func (m *MemoryStore) Seed(obs ...models.Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range obs {
		m.put(o)
	}
}

// FailWith makes every call return err wrapped as a store failure. nil restores.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *MemoryStore) put(o models.Observation) {
	byDate, ok := m.obs[o.IndicatorCode]
	if !ok {
		byDate = make(map[string]models.Observation)
		m.obs[o.IndicatorCode] = byDate
	}
	byDate[o.RecordDate] = o
}

func (m *MemoryStore) check(op string) error {
	if m.fail != nil {
		return storeErr(op, m.fail)
	}
	return nil
}

// datesDesc returns the record dates of code, newest first.
func (m *MemoryStore) datesDesc(code string) []string {
	byDate := m.obs[code]
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

func (m *MemoryStore) GetIndicator(_ context.Context, code string) (*models.Indicator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("get indicator"); err != nil {
		return nil, err
	}
	ind, ok := m.indicators[code]
	if !ok {
		return nil, nil
	}
	return &ind, nil
}

func (m *MemoryStore) ListSyncable(_ context.Context, source string) ([]models.Indicator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("list syncable"); err != nil {
		return nil, err
	}
	var out []models.Indicator
	for _, ind := range m.indicators {
		if ind.Source == source && ind.SourceSeriesID != "" {
			out = append(out, ind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *MemoryStore) Latest(_ context.Context, code string, limit int) ([]models.Point, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("latest"); err != nil {
		return nil, err
	}
	var out []models.Point
	for _, d := range m.datesDesc(code) {
		if len(out) == limit {
			break
		}
		out = append(out, models.Point{Date: d, Value: m.obs[code][d].Value})
	}
	return out, nil
}

func (m *MemoryStore) YearOverYear(_ context.Context, code string, limit int) ([]models.Point, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("year_over_year"); err != nil {
		return nil, err
	}
	hundred := decimal.NewFromInt(100)
	var out []models.Point
	for _, d := range m.datesDesc(code) {
		if len(out) == limit {
			break
		}
		t, ok := util.ParseDate(d)
		if !ok {
			continue
		}
		past, ok := m.obs[code][util.FormatDate(monthsBack(t, 12))]
		if !ok {
			continue
		}
		pv, err1 := decimal.NewFromString(past.Value)
		rv, err2 := decimal.NewFromString(m.obs[code][d].Value)
		if err1 != nil || err2 != nil || pv.IsZero() {
			continue
		}
		out = append(out, models.Point{Date: d, Value: rv.Sub(pv).Div(pv).Mul(hundred).String()})
	}
	return out, nil
}

// monthsBack matches Postgres interval arithmetic: the day clamps to the
// end of the target month.
func monthsBack(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func (m *MemoryStore) Band(_ context.Context, code string, since string) (models.Band, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("band"); err != nil {
		return models.Band{}, err
	}
	var band models.Band
	var hi, lo decimal.Decimal
	for d, o := range m.obs[code] {
		if d < since {
			continue
		}
		v, err := decimal.NewFromString(o.Value)
		if err != nil {
			continue
		}
		if band.High == nil || v.GreaterThan(hi) {
			hi = v
			s := o.Value
			band.High = &s
		}
		if band.Low == nil || v.LessThan(lo) {
			lo = v
			s := o.Value
			band.Low = &s
		}
	}
	return band, nil
}

func (m *MemoryStore) JoltsPivot(_ context.Context, openings, quits, layoffs string, limit int) ([]models.JoltsRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("jolts pivot"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, code := range []string{openings, quits, layoffs} {
		for d := range m.obs[code] {
			seen[d] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > limit {
		dates = dates[:limit]
	}

	value := func(code, d string) *string {
		o, ok := m.obs[code][d]
		if !ok {
			return nil
		}
		v := o.Value
		return &v
	}
	out := make([]models.JoltsRow, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.JoltsRow{
			Date:     d,
			Openings: value(openings, d),
			Quits:    value(quits, d),
			Layoffs:  value(layoffs, d),
		})
	}
	return out, nil
}

func (m *MemoryStore) ChangedSince(_ context.Context, since time.Time, limit int) ([]models.ChangeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("changed since"); err != nil {
		return nil, err
	}
	var out []models.ChangeRecord
	for code, byDate := range m.obs {
		ind, ok := m.indicators[code]
		if !ok {
			continue
		}
		dates := m.datesDesc(code)
		for i, d := range dates {
			o := byDate[d]
			if o.LastModified.Before(since) {
				continue
			}
			rec := models.ChangeRecord{
				Code:         code,
				Name:         ind.Name,
				RecordDate:   d,
				Latest:       o.Value,
				LastModified: o.LastModified,
			}
			if i+1 < len(dates) {
				prev := byDate[dates[i+1]].Value
				rec.Previous = &prev
			}
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) LastRecordDate(_ context.Context, code string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("last record date"); err != nil {
		return "", false, err
	}
	dates := m.datesDesc(code)
	if len(dates) == 0 {
		return "", false, nil
	}
	return dates[0], true, nil
}

func (m *MemoryStore) Upsert(_ context.Context, obs models.Observation) (models.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("upsert"); err != nil {
		return "", err
	}

	cur, exists := m.obs[obs.IndicatorCode][obs.RecordDate]
	if exists && sameValue(cur.Value, obs.Value) {
		return models.UpsertUnchanged, nil
	}
	obs.LastModified = m.now()
	m.put(obs)
	if exists {
		return models.UpsertUpdated, nil
	}
	return models.UpsertInserted, nil
}

func sameValue(a, b string) bool {
	da, err1 := decimal.NewFromString(a)
	db, err2 := decimal.NewFromString(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return da.Equal(db)
}

func (m *MemoryStore) Health(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.check("health")
}

func (m *MemoryStore) Close() error { return nil }
