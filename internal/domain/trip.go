package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusIdle       TripStatus = "IDLE"
	TripStatusSearching  TripStatus = "SEARCHING"
	TripStatusMatched    TripStatus = "MATCHED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusCompleted  TripStatus = "COMPLETED"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// WeightClass classifies the cargo weight for surcharge purposes.
type WeightClass string

const (
	WeightLight     WeightClass = "light"
	WeightMedium    WeightClass = "medium"
	WeightHeavy     WeightClass = "heavy"
	WeightVeryHeavy WeightClass = "very-heavy"
)

// TripRequest captures what the customer asked for. It is immutable once the
// trip enters SEARCHING.
type TripRequest struct {
	PickupLocation  string
	DropoffLocation string
	ServiceTier     string
	CargoWeight     WeightClass
	CargoType       string
	HelpNeeded      bool
}

// FareQuote is the priced breakdown for a request. Amounts are whole rand.
type FareQuote struct {
	BaseFare     int64   `json:"base_fare"`
	DistanceFare int64   `json:"distance_fare"`
	TotalFare    int64   `json:"total_fare"`
	DistanceKm   float64 `json:"distance_km"`
}

// Trip is the single active trip of a session. It is owned exclusively by the
// TripSession; everyone else sees copies.
type Trip struct {
	ID          string
	Status      TripStatus
	Request     TripRequest
	Driver      *Driver
	Fare        *FareQuote
	CreatedAt   time.Time
	CompletedAt time.Time
}
