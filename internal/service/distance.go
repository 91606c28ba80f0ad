package service

import (
	"math/rand"
	"sync"
	"time"
)

// DistanceEstimator resolves two location names to a trip distance. The core
// treats it as opaque; a routing service slots in behind this interface.
type DistanceEstimator interface {
	Estimate(pickup, dropoff string) float64
}

// MockDistanceEstimator stands in for a real router: it returns a bounded
// pseudo-random whole-km distance in [2, 22). The locations are ignored.
type MockDistanceEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockDistanceEstimator creates a time-seeded estimator.
func NewMockDistanceEstimator() *MockDistanceEstimator {
	return &MockDistanceEstimator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (e *MockDistanceEstimator) Estimate(pickup, dropoff string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.rng.Intn(20) + 2)
}

// FixedDistanceEstimator always returns the same distance. Used in tests and
// anywhere a deterministic quote is needed.
type FixedDistanceEstimator struct {
	Km float64
}

func (e FixedDistanceEstimator) Estimate(pickup, dropoff string) float64 {
	return e.Km
}
