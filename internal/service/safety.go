package service

import (
	"context"

	"bakkie/internal/domain"
	"bakkie/internal/kv"
)

// SafetyService manages the trusted contact trip details are shared with.
type SafetyService struct {
	store kv.Store
}

// NewSafetyService creates a safety service over the given store.
func NewSafetyService(store kv.Store) *SafetyService {
	return &SafetyService{store: store}
}

// TrustedContact returns the saved contact and whether one is set.
func (s *SafetyService) TrustedContact(ctx context.Context) (domain.TrustedContact, bool) {
	var contact domain.TrustedContact
	if !kv.GetJSON(ctx, s.store, kv.KeyTrustedContact, &contact) || contact.Phone == "" {
		return domain.TrustedContact{}, false
	}
	return contact, true
}

// SetTrustedContact saves the contact phone number.
func (s *SafetyService) SetTrustedContact(ctx context.Context, phone string) error {
	if phone == "" {
		return ErrInvalidContactPhone
	}
	return kv.SetJSON(ctx, s.store, kv.KeyTrustedContact, domain.TrustedContact{Phone: phone})
}

// EarningsService keeps the driver dashboard counters. Completed trips feed
// straight into the running totals.
type EarningsService struct {
	store kv.Store
}

// NewEarningsService creates an earnings service over the given store.
func NewEarningsService(store kv.Store) *EarningsService {
	return &EarningsService{store: store}
}

// Earnings returns the current counters; absent or corrupt data yields zeros.
func (s *EarningsService) Earnings(ctx context.Context) domain.DriverEarnings {
	var earnings domain.DriverEarnings
	kv.GetJSON(ctx, s.store, kv.KeyDriverEarnings, &earnings)
	return earnings
}

// RecordTrip adds a completed trip's fare to the counters.
func (s *EarningsService) RecordTrip(ctx context.Context, amount int64) error {
	earnings := s.Earnings(ctx)
	earnings.Today += amount
	earnings.Week += amount
	earnings.TripsToday++
	return kv.SetJSON(ctx, s.store, kv.KeyDriverEarnings, earnings)
}
