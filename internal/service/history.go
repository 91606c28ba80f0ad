package service

import (
	"context"

	"bakkie/internal/domain"
	"bakkie/internal/kv"
)

// historyLimit caps the stored trip log; the oldest entry is evicted when a
// 21st is recorded.
const historyLimit = 20

// HistoryService keeps the capped, newest-first log of completed trips in the
// key-value store. Reads fail soft: corrupt or missing data yields an empty
// history, never an error.
type HistoryService struct {
	store kv.Store
}

// NewHistoryService creates a history service over the given store.
func NewHistoryService(store kv.Store) *HistoryService {
	return &HistoryService{store: store}
}

// Record prepends entry to the log, evicting beyond the cap.
func (s *HistoryService) Record(ctx context.Context, entry domain.TripHistoryEntry) error {
	entries := s.load(ctx)
	entries = append([]domain.TripHistoryEntry{entry}, entries...)
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	return kv.SetJSON(ctx, s.store, kv.KeyTripHistory, entries)
}

// List returns the log, newest first.
func (s *HistoryService) List(ctx context.Context) []domain.TripHistoryEntry {
	return s.load(ctx)
}

func (s *HistoryService) load(ctx context.Context) []domain.TripHistoryEntry {
	var entries []domain.TripHistoryEntry
	if !kv.GetJSON(ctx, s.store, kv.KeyTripHistory, &entries) {
		return nil
	}
	return entries
}
