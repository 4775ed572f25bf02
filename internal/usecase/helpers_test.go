package usecase

import (
	"context"
	"sync"
	"time"

	"MacroBot/internal/domain/models"
	"MacroBot/internal/repository"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeMetrics struct {
	mu            sync.Mutex
	lookups       map[string]int
	ingested      map[string]int
	notifications map[string]int
	errors        map[string]int
	syncs         int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		lookups:       map[string]int{},
		ingested:      map[string]int{},
		notifications: map[string]int{},
		errors:        map[string]int{},
	}
}

func (m *fakeMetrics) RecordLookup(strategy, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[strategy+"/"+outcome]++
}

func (m *fakeMetrics) RecordIngested(series, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested[series+"/"+result]++
}

func (m *fakeMetrics) RecordNotification(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[result]++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordSync(time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs++
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

type push struct {
	to   string
	text string
}

type fakeMessenger struct {
	pushes  []push
	replies [][]string
	err     error
}

func (f *fakeMessenger) Reply(_ context.Context, _ string, blocks []string) error {
	if f.err != nil {
		return f.err
	}
	f.replies = append(f.replies, blocks)
	return nil
}

func (f *fakeMessenger) Push(_ context.Context, to, text string) error {
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, push{to: to, text: text})
	return nil
}

func obs(code, date, value string) models.Observation {
	return models.Observation{IndicatorCode: code, RecordDate: date, Value: value}
}

func newStore() *repository.MemoryStore {
	return repository.NewMemoryStore(clock)
}
