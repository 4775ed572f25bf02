package usecase

import (
	"context"
	"time"

	"MacroBot/internal/domain/models"
	drepo "MacroBot/internal/domain/repository"
)

const (
	DefaultScanWindow = 24 * time.Hour
	DefaultScanLimit  = 100
)

// UpdateScanner lists observations modified inside a trailing window.
type UpdateScanner struct {
	store  drepo.ObservationStore
	window time.Duration
	limit  int
}

func NewUpdateScanner(store drepo.ObservationStore, window time.Duration, limit int) *UpdateScanner {
	if window <= 0 {
		window = DefaultScanWindow
	}
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	return &UpdateScanner{store: store, window: window, limit: limit}
}

// Window is the trailing span a scan covers.
func (s *UpdateScanner) Window() time.Duration { return s.window }

// Scan returns changes modified at or after now minus the window, most
// recently modified first. An empty result is not an error.
func (s *UpdateScanner) Scan(ctx context.Context, now time.Time) ([]models.ChangeRecord, error) {
	changes, err := s.store.ChangedSince(ctx, now.Add(-s.window), s.limit)
	if err != nil {
		return nil, err
	}
	if changes == nil {
		changes = []models.ChangeRecord{}
	}
	return changes, nil
}
