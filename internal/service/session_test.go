package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bakkie/internal/domain"
	"bakkie/internal/kv"
	"bakkie/internal/repository"
)

type sessionFixture struct {
	session  *TripSession
	bus      *NotificationBus
	history  *HistoryService
	earnings *EarningsService

	statusCh chan StatusPayload
	errorCh  chan StatusPayload
	updates  atomic.Int64
}

// newSessionFixture wires a session over in-memory storage with a fixed 10km
// distance and a manually ticked journey. Bus traffic lands on channels so
// tests can wait for the asynchronous match outcome.
func newSessionFixture(pool repository.DriverRepository, matchDelay time.Duration) *sessionFixture {
	bus := NewNotificationBus()
	store := kv.NewMemoryStore()

	f := &sessionFixture{
		bus:      bus,
		history:  NewHistoryService(store),
		earnings: NewEarningsService(store),
		statusCh: make(chan StatusPayload, 64),
		errorCh:  make(chan StatusPayload, 8),
	}
	bus.Subscribe(func(event Event, payload any) {
		switch event {
		case EventStatusChanged:
			if p, ok := payload.(StatusPayload); ok {
				f.statusCh <- p
			}
		case EventTrackingError:
			if p, ok := payload.(StatusPayload); ok {
				f.errorCh <- p
			}
		case EventPositionUpdate:
			f.updates.Add(1)
		}
	})

	f.session = NewTripSession(
		bus,
		NewFareService(),
		FixedDistanceEstimator{Km: 10},
		NewDriverMatcher(pool, matchDelay),
		NewJourneySimulator(bus),
		f.history,
		f.earnings,
		nil,
		nil,
		SessionConfig{TickInterval: 0},
	)
	return f
}

func (f *sessionFixture) waitStatus(t *testing.T, want domain.TripStatus) StatusPayload {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-f.statusCh:
			if p.Status == want {
				return p
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %s", want)
		}
	}
}

func validRequest() domain.TripRequest {
	return domain.TripRequest{
		PickupLocation:  "Sandton City",
		DropoffLocation: "Soweto",
		ServiceTier:     "bakkie-go",
	}
}

func TestSession_RejectsMissingLocations(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), 0)

	req := validRequest()
	req.DropoffLocation = ""
	if _, err := f.session.RequestTrip(context.Background(), req); !errors.Is(err, ErrMissingLocations) {
		t.Errorf("expected ErrMissingLocations, got %v", err)
	}

	if got := f.session.Status(); got != domain.TripStatusIdle {
		t.Errorf("expected session to stay idle, got %s", got)
	}
	if f.session.ActiveTrip() != nil {
		t.Error("expected no active trip after rejected request")
	}
}

func TestSession_RejectsUnknownTier(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), 0)

	req := validRequest()
	req.ServiceTier = "helicopter"
	if _, err := f.session.RequestTrip(context.Background(), req); !errors.Is(err, ErrUnknownServiceTier) {
		t.Errorf("expected ErrUnknownServiceTier, got %v", err)
	}
	if got := f.session.Status(); got != domain.TripStatusIdle {
		t.Errorf("expected session to stay idle, got %s", got)
	}
}

func TestSession_SingleActiveTrip(t *testing.T) {
	t.Parallel()

	// A long match delay pins the first trip in SEARCHING.
	f := newSessionFixture(repository.DefaultDriverPool(), time.Hour)
	ctx := context.Background()

	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.session.Status(); got != domain.TripStatusSearching {
		t.Fatalf("expected searching, got %s", got)
	}

	if _, err := f.session.RequestTrip(ctx, validRequest()); !errors.Is(err, ErrTripInProgress) {
		t.Errorf("expected ErrTripInProgress, got %v", err)
	}

	if err := f.session.Cancel(ctx); err != nil {
		t.Fatalf("unexpected error cancelling: %v", err)
	}
}

func TestSession_FullTripLifecycle(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), 0)
	ctx := context.Background()

	trip, err := f.session.RequestTrip(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusSearching {
		t.Fatalf("expected searching trip, got %s", trip.Status)
	}
	if trip.Fare == nil || trip.Fare.TotalFare != 125 {
		t.Fatalf("expected fare total 125, got %+v", trip.Fare)
	}

	matched := f.waitStatus(t, domain.TripStatusMatched)
	if matched.Trip == nil || matched.Trip.Driver == nil {
		t.Fatal("expected matched trip with assigned driver")
	}
	if !f.session.Journey().Active() {
		t.Error("expected journey simulation running after match")
	}

	started, err := f.session.StartTrip(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.Status != domain.TripStatusInProgress {
		t.Fatalf("expected in-progress trip, got %s", started.Status)
	}

	for i := 0; i < totalJourneyTicks(); i++ {
		f.session.Journey().Tick()
	}

	f.waitStatus(t, domain.TripStatusCompleted)
	f.waitStatus(t, domain.TripStatusIdle)

	if got := f.session.Status(); got != domain.TripStatusIdle {
		t.Errorf("expected idle after completion, got %s", got)
	}
	if f.session.ActiveTrip() != nil {
		t.Error("expected no active trip after completion")
	}
	if f.session.Journey().Active() {
		t.Error("expected journey torn down after completion")
	}

	entries := f.history.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Price != 125 {
		t.Errorf("expected recorded price 125, got %d", entry.Price)
	}
	if entry.Vehicle != "Bakkie Go" {
		t.Errorf("expected vehicle Bakkie Go, got %s", entry.Vehicle)
	}
	if entry.Status != "completed" {
		t.Errorf("expected status completed, got %s", entry.Status)
	}
	if entry.Driver == "" {
		t.Error("expected recorded driver name")
	}

	earnings := f.earnings.Earnings(ctx)
	if earnings.Today != 125 || earnings.TripsToday != 1 {
		t.Errorf("expected earnings 125 over 1 trip, got %+v", earnings)
	}
}

func TestSession_EmptyPoolReturnsToIdle(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.NewStaticDriverPool(), 0)
	ctx := context.Background()

	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case p := <-f.errorCh:
		if p.Message == "" {
			t.Error("expected user-facing message on match failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tracking_error")
	}
	f.waitStatus(t, domain.TripStatusIdle)

	if got := f.session.Status(); got != domain.TripStatusIdle {
		t.Errorf("expected idle after failed match, got %s", got)
	}
	if f.session.ActiveTrip() != nil {
		t.Error("expected no active trip after failed match")
	}

	// The session must accept a fresh request after recovering.
	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Errorf("expected new request accepted after failure, got %v", err)
	}
}

func TestSession_CancelDuringSearchDiscardsMatch(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), time.Hour)
	ctx := context.Background()

	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.session.Cancel(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.waitStatus(t, domain.TripStatusCancelled)
	f.waitStatus(t, domain.TripStatusIdle)

	// The aborted match goroutine must not resurrect the trip.
	select {
	case p := <-f.statusCh:
		t.Fatalf("unexpected status after cancel: %s", p.Status)
	case <-time.After(100 * time.Millisecond):
	}
	if got := f.session.Status(); got != domain.TripStatusIdle {
		t.Errorf("expected idle, got %s", got)
	}
}

// cancellingChat cancels the session from inside its first Activate call,
// which runs in the window between the matched state change and the journey
// start. It stands in for a cancel request arriving on another goroutine at
// exactly that moment.
type cancellingChat struct {
	session       *TripSession
	once          sync.Once
	activations   atomic.Int64
	deactivations atomic.Int64
}

func (c *cancellingChat) Activate(tripID string) {
	c.activations.Add(1)
	c.once.Do(func() { _ = c.session.Cancel(context.Background()) })
}

func (c *cancellingChat) Deactivate(tripID string) {
	c.deactivations.Add(1)
}

func TestSession_CancelRacingMatchApplicationLeavesNoJourney(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), 0)
	chat := &cancellingChat{session: f.session}
	f.session.chat = chat
	ctx := context.Background()

	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.waitStatus(t, domain.TripStatusCancelled)
	f.waitStatus(t, domain.TripStatusIdle)

	// The match goroutine may still be unwinding the journey it brought up;
	// give it a bounded moment to finish.
	deadline := time.After(2 * time.Second)
	for f.session.Journey().Active() {
		select {
		case <-deadline:
			t.Fatal("journey simulator left running after cancel")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if got := f.session.Status(); got != domain.TripStatusIdle {
		t.Errorf("expected idle after cancel, got %s", got)
	}
	if f.session.ActiveTrip() != nil {
		t.Error("expected no active trip after cancel")
	}

	// No timer may fire for the cancelled trip.
	f.session.Journey().Tick()
	f.session.Journey().Tick()
	if got := f.updates.Load(); got != 0 {
		t.Errorf("expected no position updates after cancel, got %d", got)
	}

	// The chat brought up for the dead trip must be taken down twice: once by
	// the cancel itself and once more by the unwinding match goroutine, which
	// activated it after the cancel's deactivation had already run.
	chatDeadline := time.After(2 * time.Second)
	for chat.deactivations.Load() < 2 {
		select {
		case <-chatDeadline:
			t.Fatalf("chat left activated for cancelled trip: %d activations, %d deactivations",
				chat.activations.Load(), chat.deactivations.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	// The session must be clean for the next request, not reusing any
	// leftover journey state.
	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("expected fresh request accepted, got %v", err)
	}
}

func TestSession_CancelAfterMatchStopsJourney(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), 0)
	ctx := context.Background()

	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.waitStatus(t, domain.TripStatusMatched)

	if err := f.session.Cancel(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.session.Journey().Active() {
		t.Error("expected journey torn down on cancel")
	}

	// Ticks against the torn-down journey must be silent no-ops.
	f.session.Journey().Tick()
	f.session.Journey().Tick()
	if got := f.updates.Load(); got != 0 {
		t.Errorf("expected no position updates after cancel, got %d", got)
	}
}

func TestSession_TransitionGuards(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), 0)
	ctx := context.Background()

	if _, err := f.session.StartTrip(ctx); !errors.Is(err, ErrNoActiveTrip) {
		t.Errorf("expected ErrNoActiveTrip starting idle session, got %v", err)
	}
	if _, err := f.session.Complete(ctx); !errors.Is(err, ErrNoActiveTrip) {
		t.Errorf("expected ErrNoActiveTrip completing idle session, got %v", err)
	}
	if err := f.session.Cancel(ctx); !errors.Is(err, ErrNoActiveTrip) {
		t.Errorf("expected ErrNoActiveTrip cancelling idle session, got %v", err)
	}

	if _, err := f.session.RequestTrip(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.waitStatus(t, domain.TripStatusMatched)

	// Matched trips cannot complete without being started.
	if _, err := f.session.Complete(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition completing matched trip, got %v", err)
	}

	if _, err := f.session.StartTrip(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// In-progress trips cannot be cancelled or restarted.
	if err := f.session.Cancel(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition cancelling in-progress trip, got %v", err)
	}
	if _, err := f.session.StartTrip(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition restarting in-progress trip, got %v", err)
	}
}

func TestSession_SurchargeLandsInTotalOnly(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(repository.DefaultDriverPool(), time.Hour)

	req := validRequest()
	req.CargoWeight = domain.WeightHeavy
	req.HelpNeeded = true

	trip, err := f.session.RequestTrip(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 45 base + 80 distance + 25 heavy + 30 helper.
	if trip.Fare.TotalFare != 180 {
		t.Errorf("expected total 180, got %d", trip.Fare.TotalFare)
	}
	if trip.Fare.BaseFare != 45 || trip.Fare.DistanceFare != 80 {
		t.Errorf("expected base/distance untouched, got %+v", trip.Fare)
	}

	_ = f.session.Cancel(context.Background())
}
