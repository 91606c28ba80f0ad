package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"bakkie/internal/domain"
	"bakkie/internal/repository"
)

// MatchCriteria carries what the customer asked for. The simulated matcher
// ignores it: candidates are picked uniformly at random from the pool. A real
// implementation would filter by proximity and tier support; the reference
// system never attempted geographic matching, so this is a documented design
// gap rather than a bug.
type MatchCriteria struct {
	ServiceTier string
	Pickup      string
}

// DriverMatcher resolves a driver from the candidate pool after a simulated
// dispatch delay.
type DriverMatcher struct {
	pool  repository.DriverRepository
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDriverMatcher creates a matcher over the given pool. delay is how long
// FindDriver blocks before resolving; zero resolves immediately.
func NewDriverMatcher(pool repository.DriverRepository, delay time.Duration) *DriverMatcher {
	return &DriverMatcher{
		pool:  pool,
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FindDriver waits out the dispatch delay, then picks a driver uniformly at
// random. Callers must not assume synchronous resolution. Cancelling ctx
// aborts the wait; an empty pool fails with ErrNoDriverAvailable.
func (m *DriverMatcher) FindDriver(ctx context.Context, criteria MatchCriteria) (*domain.Driver, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	drivers, err := m.pool.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, ErrNoDriverAvailable
	}

	m.mu.Lock()
	i := m.rng.Intn(len(drivers))
	m.mu.Unlock()

	driver := *drivers[i]
	return &driver, nil
}
