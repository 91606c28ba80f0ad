package repository

import (
	"context"

	"bakkie/internal/domain"
)

// StaticDriverPool is a DriverRepository over a fixed slice of reference
// drivers. There is no availability state: every driver is always a
// candidate, which is all the simulated dispatch needs.
type StaticDriverPool struct {
	drivers []*domain.Driver
}

// NewStaticDriverPool creates a pool over the given drivers.
func NewStaticDriverPool(drivers ...*domain.Driver) *StaticDriverPool {
	return &StaticDriverPool{drivers: drivers}
}

// DefaultDriverPool returns the reference candidate pool.
func DefaultDriverPool() *StaticDriverPool {
	return NewStaticDriverPool(
		&domain.Driver{
			ID:          "driver-1",
			Name:        "Thabo Mthembu",
			Rating:      4.8,
			Vehicle:     "Toyota Hilux",
			PlateNumber: "GP 123 ABC",
			Phone:       "+27 82 123 4567",
			Lat:         -26.1934,
			Lng:         28.0436,
		},
		&domain.Driver{
			ID:          "driver-2",
			Name:        "Sarah Ndlovu",
			Rating:      4.9,
			Vehicle:     "Ford Ranger",
			PlateNumber: "GP 456 DEF",
			Phone:       "+27 83 987 6543",
			Lat:         -26.2041,
			Lng:         28.0473,
		},
	)
}

func (p *StaticDriverPool) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	result := make([]*domain.Driver, 0, len(p.drivers))
	for _, d := range p.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (p *StaticDriverPool) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	for _, d := range p.drivers {
		if d.ID == id {
			copy := *d
			return &copy, nil
		}
	}
	return nil, ErrNotFound
}
