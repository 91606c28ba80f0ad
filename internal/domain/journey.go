package domain

import "time"

// JourneyPhase is one of the fixed steps of a simulated journey.
type JourneyPhase string

const (
	PhaseApproaching        JourneyPhase = "approaching"
	PhaseArrived            JourneyPhase = "arrived"
	PhaseLoading            JourneyPhase = "loading"
	PhaseTraveling          JourneyPhase = "traveling"
	PhaseArrivedDestination JourneyPhase = "arrived_destination"
)

// JourneyStage is one entry of the fixed stage table the simulator walks.
type JourneyStage struct {
	Phase         JourneyPhase
	DurationTicks int
	Message       string
}

// DefaultJourneyStages returns the reference five-stage table. Durations are
// in ticks; the wall-clock length of a tick is up to the simulator.
func DefaultJourneyStages() []JourneyStage {
	return []JourneyStage{
		{Phase: PhaseApproaching, DurationTicks: 30, Message: "Driver is on the way to pickup location"},
		{Phase: PhaseArrived, DurationTicks: 5, Message: "Driver has arrived at pickup location"},
		{Phase: PhaseLoading, DurationTicks: 10, Message: "Loading your items"},
		{Phase: PhaseTraveling, DurationTicks: 45, Message: "En route to destination"},
		{Phase: PhaseArrivedDestination, DurationTicks: 10, Message: "Arrived at destination"},
	}
}

// JourneyState is the simulator's position within the stage table.
type JourneyState struct {
	StageIndex     int
	TicksIntoStage int
	Progress       float64 // overall percent complete, 0..100
}

// Telemetry is the synthetic per-tick position report.
type Telemetry struct {
	Phase      JourneyPhase `json:"phase"`
	SpeedKmh   int          `json:"speed_kmh"`
	EtaMinutes int          `json:"eta_minutes"`
	DistanceKm float64      `json:"distance_km"`
	Status     string       `json:"status"`
	Progress   int          `json:"progress"`
	Timestamp  time.Time    `json:"timestamp"`
}
