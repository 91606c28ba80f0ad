package repository

import (
	"context"

	"bakkie/internal/domain"
)

// DriverRepository provides the candidate pool the matcher draws from.
type DriverRepository interface {
	// GetAll retrieves all candidate drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
}
