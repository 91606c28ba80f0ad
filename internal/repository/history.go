package repository

import (
	"context"

	"bakkie/internal/domain"
)

// HistoryArchive is the optional long-term store for completed trips. Unlike
// the session's capped key-value history it keeps everything.
type HistoryArchive interface {
	// Record persists a completed trip.
	Record(ctx context.Context, entry *domain.TripHistoryEntry) error

	// List retrieves up to limit archived trips, newest first.
	List(ctx context.Context, limit int) ([]*domain.TripHistoryEntry, error)
}
