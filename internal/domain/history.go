package domain

// TripHistoryEntry is the archived form of a completed trip. Entries are
// persisted newest-first and capped by the history service.
type TripHistoryEntry struct {
	ID      string `json:"id"`
	Date    string `json:"date"` // YYYY-MM-DD
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
	Price   int64  `json:"price"`
	Vehicle string `json:"vehicle"` // tier display name
	Driver  string `json:"driver"`
	Status  string `json:"status"`
}

// FavoriteLocation is a user-managed saved address.
type FavoriteLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"` // home, work, other
}

// TrustedContact is the phone number trip details are shared with.
type TrustedContact struct {
	Phone string `json:"phone"`
}

// DriverEarnings are the running counters shown on the driver dashboard.
type DriverEarnings struct {
	Today      int64 `json:"today"`
	Week       int64 `json:"week"`
	TripsToday int   `json:"trips_today"`
}
