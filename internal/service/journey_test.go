package service

import (
	"testing"

	"bakkie/internal/domain"
)

// eventRecorder collects bus traffic for assertions. Delivery is synchronous,
// so with a manually ticked journey no synchronization is needed.
type eventRecorder struct {
	events   []Event
	payloads []any
}

func newEventRecorder(bus *NotificationBus) *eventRecorder {
	r := &eventRecorder{}
	bus.Subscribe(func(event Event, payload any) {
		r.events = append(r.events, event)
		r.payloads = append(r.payloads, payload)
	})
	return r
}

func (r *eventRecorder) count(event Event) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *eventRecorder) telemetry() []domain.Telemetry {
	var out []domain.Telemetry
	for i, e := range r.events {
		if e == EventPositionUpdate {
			out = append(out, r.payloads[i].(domain.Telemetry))
		}
	}
	return out
}

func totalJourneyTicks() int {
	total := 0
	for _, st := range domain.DefaultJourneyStages() {
		total += st.DurationTicks
	}
	return total
}

func TestJourney_ProgressNeverDecreases(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	recorder := newEventRecorder(bus)
	sim := NewJourneySimulator(bus)

	sim.Start("Sandton", "Soweto", 0)
	for i := 0; i < totalJourneyTicks(); i++ {
		sim.Tick()
	}

	updates := recorder.telemetry()
	if len(updates) != totalJourneyTicks() {
		t.Fatalf("expected %d position updates, got %d", totalJourneyTicks(), len(updates))
	}

	prev := -1
	for i, u := range updates {
		if u.Progress < prev {
			t.Fatalf("progress decreased at tick %d: %d -> %d", i, prev, u.Progress)
		}
		if u.Progress < 0 || u.Progress > 100 {
			t.Fatalf("progress out of range at tick %d: %d", i, u.Progress)
		}
		prev = u.Progress
	}
	if updates[len(updates)-1].Progress != 100 {
		t.Errorf("expected final progress 100, got %d", updates[len(updates)-1].Progress)
	}
}

func TestJourney_WalksAllStagesThenCompletes(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	recorder := newEventRecorder(bus)
	sim := NewJourneySimulator(bus)

	sim.Start("Sandton", "Soweto", 0)
	if !sim.Active() {
		t.Fatal("expected simulator active after start")
	}
	for i := 0; i < totalJourneyTicks(); i++ {
		sim.Tick()
	}

	if sim.Active() {
		t.Error("expected simulator inactive after final stage")
	}
	if got := recorder.count(EventJourneyComplete); got != 1 {
		t.Errorf("expected 1 journey_complete, got %d", got)
	}
	// One change per stage boundary short of the final one.
	if got := recorder.count(EventStageChanged); got != len(domain.DefaultJourneyStages())-1 {
		t.Errorf("expected %d stage_changed events, got %d", len(domain.DefaultJourneyStages())-1, got)
	}

	var phases []domain.JourneyPhase
	seen := map[domain.JourneyPhase]bool{}
	for _, u := range recorder.telemetry() {
		if !seen[u.Phase] {
			seen[u.Phase] = true
			phases = append(phases, u.Phase)
		}
	}
	want := []domain.JourneyPhase{
		domain.PhaseApproaching,
		domain.PhaseArrived,
		domain.PhaseLoading,
		domain.PhaseTraveling,
		domain.PhaseArrivedDestination,
	}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
	}
}

func TestJourney_EtaNeverIncreasesWithinStage(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	recorder := newEventRecorder(bus)
	sim := NewJourneySimulator(bus)

	sim.Start("Sandton", "Soweto", 0)
	for i := 0; i < totalJourneyTicks(); i++ {
		sim.Tick()
	}

	prevPhase := domain.JourneyPhase("")
	prevEta := 0
	for i, u := range recorder.telemetry() {
		if u.Phase != prevPhase {
			prevPhase = u.Phase
			prevEta = u.EtaMinutes
			continue
		}
		if u.EtaMinutes > prevEta {
			t.Fatalf("eta increased within %s at tick %d: %d -> %d", u.Phase, i, prevEta, u.EtaMinutes)
		}
		prevEta = u.EtaMinutes
	}
}

func TestJourney_CompletionFiresCallbackOnce(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	sim := NewJourneySimulator(bus)

	calls := 0
	sim.SetOnComplete(func() { calls++ })

	sim.Start("Sandton", "Soweto", 0)
	for i := 0; i < totalJourneyTicks()+10; i++ {
		sim.Tick()
	}

	if calls != 1 {
		t.Errorf("expected completion callback once, got %d", calls)
	}
}

func TestJourney_StopTearsDownAndDiscardsStaleTicks(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	sim := NewJourneySimulator(bus)

	sim.Start("Sandton", "Soweto", 0)
	sim.Tick()

	sim.mu.Lock()
	staleGen := sim.generation
	sim.mu.Unlock()

	recorder := newEventRecorder(bus)
	sim.Stop()

	if sim.Active() {
		t.Fatal("expected simulator inactive after stop")
	}
	if got := recorder.count(EventTrackingStopped); got != 1 {
		t.Errorf("expected 1 tracking_stopped, got %d", got)
	}

	// A callback scheduled before the stop must become a no-op.
	sim.tick(staleGen)
	sim.Tick()

	if got := recorder.count(EventPositionUpdate); got != 0 {
		t.Errorf("expected no position updates after stop, got %d", got)
	}
}

func TestJourney_StopRunOnlyStopsItsOwnRun(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	sim := NewJourneySimulator(bus)

	first := sim.Start("Sandton", "Soweto", 0)
	if first == 0 {
		t.Fatal("expected a run generation from start")
	}
	sim.Stop()

	second := sim.Start("Rosebank", "Midrand", 0)
	if second == 0 || second == first {
		t.Fatalf("expected a fresh run generation, got %d after %d", second, first)
	}

	// A handle for a finished run must not touch the one now running.
	sim.StopRun(first)
	if !sim.Active() {
		t.Fatal("stale StopRun stopped a newer run")
	}

	// The zero handle from a no-op start stops nothing.
	sim.StopRun(0)
	if !sim.Active() {
		t.Fatal("zero StopRun stopped a run")
	}

	sim.StopRun(second)
	if sim.Active() {
		t.Error("expected the current run stopped by its own handle")
	}
}

func TestJourney_StartWhileActiveIsNoOp(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	sim := NewJourneySimulator(bus)

	sim.Start("Sandton", "Soweto", 0)
	for i := 0; i < 5; i++ {
		sim.Tick()
	}
	before := sim.State()

	sim.Start("Elsewhere", "Elsewhere", 0)

	after := sim.State()
	if before != after {
		t.Errorf("second start reset state: %+v -> %+v", before, after)
	}
}

func TestJourney_StageJumpHooks(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	sim := NewJourneySimulator(bus)

	sim.Start("Sandton", "Soweto", 0)

	sim.SkipToNextStage()
	if got := sim.State().StageIndex; got != 1 {
		t.Errorf("expected stage 1 after skip, got %d", got)
	}

	sim.SetStage(3)
	if got := sim.State().StageIndex; got != 3 {
		t.Errorf("expected stage 3 after set, got %d", got)
	}

	sim.SetStage(99)
	if got := sim.State().StageIndex; got != 3 {
		t.Errorf("expected out-of-range set to be ignored, got stage %d", got)
	}
}

func TestJourney_StatusReflectsActivity(t *testing.T) {
	t.Parallel()

	bus := NewNotificationBus()
	sim := NewJourneySimulator(bus)

	if status := sim.Status(); status.Active {
		t.Error("expected inactive status before start")
	}

	sim.Start("Sandton", "Soweto", 0)
	status := sim.Status()
	if !status.Active {
		t.Fatal("expected active status after start")
	}
	if status.Stage != 1 || status.TotalStages != 5 {
		t.Errorf("expected stage 1 of 5, got %d of %d", status.Stage, status.TotalStages)
	}
	if status.Phase != domain.PhaseApproaching {
		t.Errorf("expected approaching phase, got %s", status.Phase)
	}
}
