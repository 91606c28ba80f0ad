package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"bakkie/internal/domain"
	"bakkie/internal/repository"
)

// StatusPayload accompanies statusChanged events.
type StatusPayload struct {
	Status  domain.TripStatus `json:"status"`
	Trip    *domain.Trip      `json:"trip,omitempty"`
	Message string            `json:"message,omitempty"`
}

// allowedTransitions is the trip state flow as code. Completed and cancelled
// are transient: the session passes through them and settles back on idle
// (trip cleared) in the same operation.
var allowedTransitions = map[domain.TripStatus][]domain.TripStatus{
	domain.TripStatusIdle:       {domain.TripStatusSearching},
	domain.TripStatusSearching:  {domain.TripStatusMatched, domain.TripStatusCancelled},
	domain.TripStatusMatched:    {domain.TripStatusInProgress, domain.TripStatusCancelled},
	domain.TripStatusInProgress: {domain.TripStatusCompleted},
}

func canTransition(from, to domain.TripStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SessionConfig carries the simulated timing knobs. The match delay lives in
// the DriverMatcher, not here.
type SessionConfig struct {
	// TickInterval is the wall-clock length of one journey tick. Zero means
	// the journey is driven manually via the simulator's Tick.
	TickInterval time.Duration
}

// TripSession owns the single active trip of a client session and drives all
// of its mutations. Exactly one trip may be non-idle at a time.
//
// Deferred work (the match delay, journey ticks, journey completion) carries
// the generation captured when it was scheduled; the session bumps the
// generation on every cancel/complete and discards stale callbacks, so no
// timer can mutate a superseded trip.
type TripSession struct {
	bus      *NotificationBus
	fare     *FareService
	distance DistanceEstimator
	matcher  *DriverMatcher
	journey  *JourneySimulator
	history  *HistoryService
	earnings *EarningsService
	archive  repository.HistoryArchive
	chat     ChatNotifier
	cfg      SessionConfig

	// mu guards the fields below. Publishes and collaborator calls happen
	// outside the critical section, state mutations inside.
	mu          sync.Mutex
	generation  uint64
	trip        *domain.Trip
	cancelMatch context.CancelFunc
}

// NewTripSession wires a session. archive may be nil; chat defaults to the
// no-op notifier when nil.
func NewTripSession(
	bus *NotificationBus,
	fare *FareService,
	distance DistanceEstimator,
	matcher *DriverMatcher,
	journey *JourneySimulator,
	history *HistoryService,
	earnings *EarningsService,
	archive repository.HistoryArchive,
	chat ChatNotifier,
	cfg SessionConfig,
) *TripSession {
	if chat == nil {
		chat = NoopChatNotifier{}
	}
	s := &TripSession{
		bus:      bus,
		fare:     fare,
		distance: distance,
		matcher:  matcher,
		journey:  journey,
		history:  history,
		earnings: earnings,
		archive:  archive,
		chat:     chat,
		cfg:      cfg,
	}
	journey.SetOnComplete(s.onJourneyComplete)
	return s
}

// Journey exposes the simulator for display collaborators and manual
// advancement in tests.
func (s *TripSession) Journey() *JourneySimulator {
	return s.journey
}

// ActiveTrip returns a copy of the active trip, or nil when idle.
func (s *TripSession) ActiveTrip() *domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTrip(s.trip)
}

// Status returns the session's current trip status.
func (s *TripSession) Status() domain.TripStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *TripSession) statusLocked() domain.TripStatus {
	if s.trip == nil {
		return domain.TripStatusIdle
	}
	return s.trip.Status
}

// RequestTrip validates the request, prices it, and moves the session to
// SEARCHING. Dispatch resolves asynchronously after the configured match
// delay: the caller gets the searching trip back immediately and learns the
// outcome via statusChanged / tracking_error events.
//
// Requesting while any trip is active fails with ErrTripInProgress and leaves
// the session untouched.
func (s *TripSession) RequestTrip(ctx context.Context, req domain.TripRequest) (*domain.Trip, error) {
	if req.PickupLocation == "" || req.DropoffLocation == "" {
		return nil, ErrMissingLocations
	}

	distanceKm := s.distance.Estimate(req.PickupLocation, req.DropoffLocation)
	quote, err := s.fare.Quote(req.ServiceTier, distanceKm)
	if err != nil {
		return nil, err
	}
	surcharge, err := s.fare.CargoSurcharge(req.CargoWeight, req.HelpNeeded, req.ServiceTier)
	if err != nil {
		return nil, err
	}
	// The surcharge is a separate pricing step; it lands in the total only.
	quote.TotalFare += surcharge

	s.mu.Lock()
	if s.statusLocked() != domain.TripStatusIdle {
		s.mu.Unlock()
		return nil, ErrTripInProgress
	}

	trip := &domain.Trip{
		ID:        uuid.New().String(),
		Status:    domain.TripStatusSearching,
		Request:   req,
		Fare:      &quote,
		CreatedAt: time.Now(),
	}
	s.trip = trip
	s.generation++
	gen := s.generation

	matchCtx, cancel := context.WithCancel(context.Background())
	s.cancelMatch = cancel
	snapshot := copyTrip(trip)
	s.mu.Unlock()

	go s.runMatch(matchCtx, gen, req)

	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusSearching, Trip: snapshot})
	return snapshot, nil
}

// runMatch resolves dispatch for generation gen and applies the outcome,
// unless the trip has been superseded in the meantime.
func (s *TripSession) runMatch(ctx context.Context, gen uint64, req domain.TripRequest) {
	driver, err := s.matcher.FindDriver(ctx, MatchCriteria{
		ServiceTier: req.ServiceTier,
		Pickup:      req.PickupLocation,
	})

	s.mu.Lock()
	if gen != s.generation || s.trip == nil || s.trip.Status != domain.TripStatusSearching {
		s.mu.Unlock()
		return
	}

	if err != nil {
		// Matching failure is expected at runtime: log, return to idle, and
		// surface a user-visible message. Never fatal.
		s.generation++
		s.trip = nil
		s.cancelMatch = nil
		s.mu.Unlock()

		log.Printf("[SESSION] driver match failed: %v", err)
		s.bus.Publish(EventTrackingError, StatusPayload{
			Status:  domain.TripStatusIdle,
			Message: "No drivers available right now. Please try again.",
		})
		s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusIdle})
		return
	}

	s.trip.Status = domain.TripStatusMatched
	s.trip.Driver = driver
	s.cancelMatch = nil
	trip := s.trip
	snapshot := copyTrip(trip)
	pickup, dropoff := trip.Request.PickupLocation, trip.Request.DropoffLocation
	s.mu.Unlock()

	s.chat.Activate(snapshot.ID)
	jgen := s.journey.Start(pickup, dropoff, s.cfg.TickInterval)

	// The collaborator calls above run outside the lock, so a Cancel may have
	// landed between them and the state change. Its journey.Stop would have
	// been a no-op against the not-yet-started simulator; unwind here so no
	// timer outlives the trip.
	if s.unwindIfSuperseded(gen, jgen, snapshot.ID) {
		return
	}

	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusMatched, Trip: snapshot})
}

// unwindIfSuperseded reports whether generation gen has been superseded and,
// when it has, tears down the journey run and chat the stale caller just
// brought up. Stopping through journeyGen keeps the unwind from touching a
// run a newer trip may already own; the chat teardown is idempotent against
// whatever the superseding operation already deactivated.
func (s *TripSession) unwindIfSuperseded(gen, journeyGen uint64, tripID string) bool {
	s.mu.Lock()
	stale := gen != s.generation
	s.mu.Unlock()
	if !stale {
		return false
	}

	s.journey.StopRun(journeyGen)
	s.chat.Deactivate(tripID)
	return true
}

// StartTrip moves a matched trip to IN_PROGRESS. The journey keeps running
// from wherever the approach simulation got to; if it was torn down it is
// restarted from stage 0.
func (s *TripSession) StartTrip(ctx context.Context) (*domain.Trip, error) {
	s.mu.Lock()
	if s.trip == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveTrip
	}
	if !canTransition(s.trip.Status, domain.TripStatusInProgress) {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if s.trip.Driver == nil {
		s.mu.Unlock()
		return nil, ErrDriverNotAssigned
	}

	s.trip.Status = domain.TripStatusInProgress
	gen := s.generation
	snapshot := copyTrip(s.trip)
	pickup, dropoff := s.trip.Request.PickupLocation, s.trip.Request.DropoffLocation
	s.mu.Unlock()

	s.chat.Activate(snapshot.ID)
	var jgen uint64
	if !s.journey.Active() {
		jgen = s.journey.Start(pickup, dropoff, s.cfg.TickInterval)
	}

	// Same unlocked window as runMatch: if the trip was torn down while the
	// journey was restarted, take the restarted run down with it.
	if s.unwindIfSuperseded(gen, jgen, snapshot.ID) {
		return snapshot, nil
	}

	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusInProgress, Trip: snapshot})
	return snapshot, nil
}

// Cancel aborts a searching or matched trip and returns the session to idle.
// All pending timers for the trip are torn down synchronously: the match
// delay is cancelled here and the journey ticker inside journey.Stop, and the
// generation bump invalidates anything already in flight.
func (s *TripSession) Cancel(ctx context.Context) error {
	s.mu.Lock()
	if s.trip == nil {
		s.mu.Unlock()
		return ErrNoActiveTrip
	}
	if !canTransition(s.trip.Status, domain.TripStatusCancelled) {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	s.generation++
	if s.cancelMatch != nil {
		s.cancelMatch()
		s.cancelMatch = nil
	}
	tripID := s.trip.ID
	s.trip = nil
	s.mu.Unlock()

	s.journey.Stop()
	s.chat.Deactivate(tripID)
	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusCancelled})
	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusIdle})
	return nil
}

// Complete finishes an in-progress trip: the session passes through
// COMPLETED back to idle, and the trip is recorded (with its embedded fare)
// in the capped history, the driver earnings counters, and the long-term
// archive when one is wired. Persistence failures are logged, never fatal.
func (s *TripSession) Complete(ctx context.Context) (*domain.TripHistoryEntry, error) {
	s.mu.Lock()
	if s.trip == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveTrip
	}
	if !canTransition(s.trip.Status, domain.TripStatusCompleted) {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}

	s.generation++
	now := time.Now()
	s.trip.Status = domain.TripStatusCompleted
	s.trip.CompletedAt = now

	tier, _ := s.fare.Tier(s.trip.Request.ServiceTier)
	entry := domain.TripHistoryEntry{
		ID:      s.trip.ID,
		Date:    now.Format("2006-01-02"),
		Pickup:  s.trip.Request.PickupLocation,
		Dropoff: s.trip.Request.DropoffLocation,
		Price:   s.trip.Fare.TotalFare,
		Vehicle: tier.Name,
		Status:  "completed",
	}
	if s.trip.Driver != nil {
		entry.Driver = s.trip.Driver.Name
	}
	snapshot := copyTrip(s.trip)
	s.trip = nil
	s.mu.Unlock()

	s.journey.Stop()

	if err := s.history.Record(ctx, entry); err != nil {
		log.Printf("[SESSION] recording trip history failed: %v", err)
	}
	if s.earnings != nil {
		if err := s.earnings.RecordTrip(ctx, entry.Price); err != nil {
			log.Printf("[SESSION] recording driver earnings failed: %v", err)
		}
	}
	if s.archive != nil {
		if err := s.archive.Record(ctx, &entry); err != nil {
			log.Printf("[SESSION] archiving trip failed: %v", err)
		}
	}

	s.chat.Deactivate(entry.ID)
	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusCompleted, Trip: snapshot})
	s.bus.Publish(EventStatusChanged, StatusPayload{Status: domain.TripStatusIdle})
	return &entry, nil
}

// onJourneyComplete finishes the trip when the simulator walks off the end of
// the stage table. If the trip was never started (still matched) the
// completion is rejected and logged; the demo then sits on the matched screen
// just like the reference.
func (s *TripSession) onJourneyComplete() {
	if _, err := s.Complete(context.Background()); err != nil {
		log.Printf("[SESSION] journey completed without completable trip: %v", err)
	}
}

func copyTrip(t *domain.Trip) *domain.Trip {
	if t == nil {
		return nil
	}
	out := *t
	if t.Driver != nil {
		d := *t.Driver
		out.Driver = &d
	}
	if t.Fare != nil {
		f := *t.Fare
		out.Fare = &f
	}
	return &out
}
