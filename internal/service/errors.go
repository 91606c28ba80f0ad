package service

import "errors"

var (
	// ErrTripInProgress is returned when requesting a trip while another is active.
	ErrTripInProgress = errors.New("another trip is already active")

	// ErrNoActiveTrip is returned when operating on a trip that does not exist.
	ErrNoActiveTrip = errors.New("no active trip")

	// ErrInvalidTransition is returned on an illegal trip state transition.
	ErrInvalidTransition = errors.New("invalid trip state transition")

	// ErrMissingLocations is returned when pickup or dropoff is empty.
	ErrMissingLocations = errors.New("pickup and dropoff locations are required")

	// ErrDriverNotAssigned is returned when starting a trip with no driver.
	ErrDriverNotAssigned = errors.New("no driver assigned to trip")

	// ErrNoDriverAvailable is returned when the candidate pool is empty.
	ErrNoDriverAvailable = errors.New("no driver available")

	// ErrUnknownServiceTier is returned for a tier id missing from the pricing table.
	ErrUnknownServiceTier = errors.New("unknown service tier")

	// ErrUnknownWeightClass is returned for a cargo weight class missing from the surcharge table.
	ErrUnknownWeightClass = errors.New("unknown cargo weight class")

	// ErrInvalidContactPhone is returned when setting an empty trusted contact.
	ErrInvalidContactPhone = errors.New("invalid contact phone")

	// ErrUnknownTheme is returned for a theme other than light or dark.
	ErrUnknownTheme = errors.New("unknown theme")
)
