package domain

// Driver represents a driver in the candidate pool. Reference data: matching
// copies an entry, it never mutates the pool.
type Driver struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"` // 0..5
	Vehicle     string  `json:"vehicle"`
	PlateNumber string  `json:"plate_number"`
	Phone       string  `json:"phone"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}
