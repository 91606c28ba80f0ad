package service

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"bakkie/internal/domain"
)

// TrackingPayload accompanies tracking_started/tracking_stopped events.
type TrackingPayload struct {
	Pickup    string    `json:"pickup"`
	Dropoff   string    `json:"dropoff"`
	Timestamp time.Time `json:"timestamp"`
}

// StagePayload accompanies stage_changed events.
type StagePayload struct {
	Stage   int                 `json:"stage"`
	Phase   domain.JourneyPhase `json:"phase"`
	Message string              `json:"message"`
}

// JourneyStatus is a point-in-time snapshot for display collaborators.
type JourneyStatus struct {
	Active      bool                `json:"active"`
	Phase       domain.JourneyPhase `json:"phase,omitempty"`
	Stage       int                 `json:"stage"`
	TotalStages int                 `json:"total_stages"`
	Message     string              `json:"message"`
	Progress    int                 `json:"progress"`
}

// JourneySimulator walks the fixed five-stage journey table on a timer,
// emitting synthetic telemetry through the NotificationBus. It owns the
// JourneyState exclusively; collaborators only ever see derived events.
//
// Every timer callback carries the generation captured at Start and is
// discarded if the simulator has been stopped or restarted since: no tick may
// mutate state on behalf of a superseded journey.
type JourneySimulator struct {
	bus   *NotificationBus
	clock func() time.Time

	mu             sync.Mutex
	stages         []domain.JourneyStage
	totalTicks     int
	active         bool
	generation     uint64
	stageIndex     int
	ticksIntoStage int
	pickup         string
	dropoff        string
	ticker         *time.Ticker
	done           chan struct{}
	onComplete     func()
}

// NewJourneySimulator creates an inactive simulator over the default stage
// table.
func NewJourneySimulator(bus *NotificationBus) *JourneySimulator {
	stages := domain.DefaultJourneyStages()
	total := 0
	for _, st := range stages {
		total += st.DurationTicks
	}
	return &JourneySimulator{
		bus:        bus,
		clock:      time.Now,
		stages:     stages,
		totalTicks: total,
	}
}

// SetOnComplete registers a callback invoked once when the journey finishes
// its last stage. Must be called before Start.
func (s *JourneySimulator) SetOnComplete(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// Start begins the simulation at stage 0 and returns the generation of the
// started run, usable with StopRun. A tickInterval of zero disables the
// internal timer; callers then drive the journey with Tick. Starting while
// already active is a no-op and returns zero.
func (s *JourneySimulator) Start(pickup, dropoff string, tickInterval time.Duration) uint64 {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		log.Printf("[JOURNEY] tracking already active")
		return 0
	}
	s.active = true
	s.generation++
	gen := s.generation
	s.stageIndex = 0
	s.ticksIntoStage = 0
	s.pickup = pickup
	s.dropoff = dropoff

	if tickInterval > 0 {
		s.ticker = time.NewTicker(tickInterval)
		s.done = make(chan struct{})
		go s.run(s.ticker, s.done, gen)
	}
	s.mu.Unlock()

	s.bus.Publish(EventTrackingStarted, TrackingPayload{
		Pickup:    pickup,
		Dropoff:   dropoff,
		Timestamp: s.clock(),
	})
	return gen
}

// Stop tears the simulation down: the tick timer is cancelled synchronously
// and any in-flight callback for the old generation becomes a no-op.
// Stopping while inactive is a no-op.
func (s *JourneySimulator) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.teardownLocked()
	pickup, dropoff := s.pickup, s.dropoff
	s.mu.Unlock()

	s.bus.Publish(EventTrackingStopped, TrackingPayload{
		Pickup:    pickup,
		Dropoff:   dropoff,
		Timestamp: s.clock(),
	})
}

// StopRun tears the simulation down only while run gen is still the one
// running. It lets the caller that started a run stop that exact run without
// racing whatever replaced it; a zero or superseded gen is a no-op.
func (s *JourneySimulator) StopRun(gen uint64) {
	s.mu.Lock()
	if !s.active || gen == 0 || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.teardownLocked()
	pickup, dropoff := s.pickup, s.dropoff
	s.mu.Unlock()

	s.bus.Publish(EventTrackingStopped, TrackingPayload{
		Pickup:    pickup,
		Dropoff:   dropoff,
		Timestamp: s.clock(),
	})
}

// teardownLocked deactivates the simulator and invalidates outstanding timer
// callbacks. Callers hold s.mu.
func (s *JourneySimulator) teardownLocked() {
	s.active = false
	s.generation++
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// Active reports whether a journey is running.
func (s *JourneySimulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// State returns the simulator's position within the stage table.
func (s *JourneySimulator) State() domain.JourneyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.JourneyState{
		StageIndex:     s.stageIndex,
		TicksIntoStage: s.ticksIntoStage,
		Progress:       s.progressLocked(),
	}
}

// Status returns a display snapshot of the journey.
func (s *JourneySimulator) Status() JourneyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return JourneyStatus{Active: false, Message: "Tracking not active"}
	}

	stage := s.stages[s.stageIndex]
	return JourneyStatus{
		Active:      true,
		Phase:       stage.Phase,
		Stage:       s.stageIndex + 1,
		TotalStages: len(s.stages),
		Message:     stage.Message,
		Progress:    int(math.Round(s.progressLocked())),
	}
}

// Tick advances the journey by one simulated time unit. It is the manual
// counterpart of the internal timer, used by tests and debug tooling. Ticking
// while inactive is a no-op.
func (s *JourneySimulator) Tick() {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	s.tick(gen)
}

// SkipToNextStage jumps to the next stage without waiting out the timer.
// Test/debug hook; emits no events.
func (s *JourneySimulator) SkipToNextStage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.stageIndex >= len(s.stages)-1 {
		return
	}
	s.stageIndex++
	s.ticksIntoStage = 0
	log.Printf("[JOURNEY] skipped to stage: %s", s.stages[s.stageIndex].Phase)
}

// SetStage jumps to an arbitrary stage. Test/debug hook; out-of-range indexes
// are ignored.
func (s *JourneySimulator) SetStage(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || index < 0 || index >= len(s.stages) {
		return
	}
	s.stageIndex = index
	s.ticksIntoStage = 0
	log.Printf("[JOURNEY] set to stage: %s", s.stages[index].Phase)
}

// run is the timer loop. Each tick runs to completion before the next fires.
func (s *JourneySimulator) run(ticker *time.Ticker, done chan struct{}, gen uint64) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.tick(gen)
		}
	}
}

// tick applies one simulation step for the given generation. Stale
// generations (stopped or restarted journeys) are discarded.
func (s *JourneySimulator) tick(gen uint64) {
	s.mu.Lock()
	if !s.active || gen != s.generation {
		s.mu.Unlock()
		return
	}

	stage := s.stages[s.stageIndex]
	s.ticksIntoStage++

	progress := s.progressLocked()
	telemetry := s.telemetryLocked(stage, progress)

	var stageChanged *StagePayload
	complete := false
	if s.ticksIntoStage >= stage.DurationTicks {
		s.stageIndex++
		s.ticksIntoStage = 0
		if s.stageIndex < len(s.stages) {
			next := s.stages[s.stageIndex]
			stageChanged = &StagePayload{Stage: s.stageIndex, Phase: next.Phase, Message: next.Message}
		} else {
			complete = true
			s.teardownLocked()
		}
	}
	onComplete := s.onComplete
	pickup, dropoff := s.pickup, s.dropoff
	s.mu.Unlock()

	if stageChanged != nil {
		s.bus.Publish(EventStageChanged, *stageChanged)
	}
	s.bus.Publish(EventPositionUpdate, telemetry)
	if complete {
		s.bus.Publish(EventJourneyComplete, TrackingPayload{
			Pickup:    pickup,
			Dropoff:   dropoff,
			Timestamp: s.clock(),
		})
		if onComplete != nil {
			onComplete()
		}
	}
}

// progressLocked computes overall percent complete, clamped to [0,100].
// Callers hold s.mu.
func (s *JourneySimulator) progressLocked() float64 {
	ticks := s.ticksIntoStage
	for i := 0; i < s.stageIndex && i < len(s.stages); i++ {
		ticks += s.stages[i].DurationTicks
	}
	progress := 100 * float64(ticks) / float64(s.totalTicks)
	return math.Min(100, math.Max(0, progress))
}

// telemetryLocked derives the synthetic per-stage fields. The formulas only
// need to look plausible; what matters is that ETA and distance never
// increase within a stage and progress never decreases. Callers hold s.mu.
func (s *JourneySimulator) telemetryLocked(stage domain.JourneyStage, progress float64) domain.Telemetry {
	now := s.clock()
	t := float64(now.UnixMilli())

	var speed, eta, distance float64
	status := stage.Message

	switch stage.Phase {
	case domain.PhaseApproaching:
		speed = 35 + math.Sin(t/10000)*10 // 25-45 km/h with variation
		eta = math.Max(1, math.Round(15-progress*0.15))
		distance = eta * 0.5
	case domain.PhaseArrived:
		status = "Driver has arrived - please come outside"
	case domain.PhaseLoading:
		pct := int(math.Round(100 * float64(s.ticksIntoStage) / float64(stage.DurationTicks)))
		status = fmt.Sprintf("Loading items... (%d%% complete)", pct)
	case domain.PhaseTraveling:
		speed = 45 + math.Sin(t/8000)*15 // 30-60 km/h highway speeds
		eta = math.Max(1, math.Round((100-progress)*0.3))
		distance = eta * 0.7
	case domain.PhaseArrivedDestination:
		status = "Arrived at destination - unloading items"
	}

	return domain.Telemetry{
		Phase:      stage.Phase,
		SpeedKmh:   int(math.Round(speed)),
		EtaMinutes: int(eta),
		DistanceKm: math.Round(distance*10) / 10,
		Status:     status,
		Progress:   int(math.Round(progress)),
		Timestamp:  now,
	}
}
