package service

import (
	"math"

	"bakkie/internal/domain"
)

// ServiceTier is one row of the pricing table.
type ServiceTier struct {
	ID             string
	Name           string
	BasePrice      int64 // rand
	PricePerKm     int64 // rand per km
	MaxWeightKg    int
	Vehicle        string
	Description    string
	IncludesHelper bool
}

// helperFee is the flat fee for loading assistance on tiers that do not
// already include a helper.
const helperFee = 30

var weightSurcharges = map[domain.WeightClass]int64{
	domain.WeightLight:     0,
	domain.WeightMedium:    10,
	domain.WeightHeavy:     25,
	domain.WeightVeryHeavy: 50,
}

// FareService prices trips from the fixed tier table. Quotes are pure:
// the same tier and distance always produce the same result.
type FareService struct {
	tiers map[string]ServiceTier
}

// NewFareService creates a FareService over the reference pricing table.
func NewFareService() *FareService {
	tiers := []ServiceTier{
		{ID: "bakkie-go", Name: "Bakkie Go", BasePrice: 45, PricePerKm: 8, MaxWeightKg: 500,
			Vehicle: "Small Bakkie", Description: "Perfect for small furniture and household items"},
		{ID: "bakkie-xl", Name: "Bakkie XL", BasePrice: 75, PricePerKm: 12, MaxWeightKg: 1000,
			Vehicle: "Large Bakkie", Description: "Ideal for large furniture and appliances"},
		{ID: "truck", Name: "Truck", BasePrice: 120, PricePerKm: 18, MaxWeightKg: 3000,
			Vehicle: "Truck", Description: "Heavy cargo and full house moves"},
		{ID: "moto", Name: "Moto", BasePrice: 25, PricePerKm: 5, MaxWeightKg: 20,
			Vehicle: "Motorcycle", Description: "Quick delivery for small items"},
		{ID: "courier", Name: "Courier", BasePrice: 15, PricePerKm: 3, MaxWeightKg: 5,
			Vehicle: "Car", Description: "Documents and small parcels"},
		{ID: "assist", Name: "Assist", BasePrice: 95, PricePerKm: 15, MaxWeightKg: 800,
			Vehicle: "Bakkie + Helper", Description: "Includes loading and unloading assistance",
			IncludesHelper: true},
	}

	table := make(map[string]ServiceTier, len(tiers))
	for _, t := range tiers {
		table[t.ID] = t
	}
	return &FareService{tiers: table}
}

// Tier looks up a tier by id.
func (s *FareService) Tier(id string) (ServiceTier, error) {
	tier, ok := s.tiers[id]
	if !ok {
		return ServiceTier{}, ErrUnknownServiceTier
	}
	return tier, nil
}

// Tiers returns the pricing table rows in display order.
func (s *FareService) Tiers() []ServiceTier {
	order := []string{"bakkie-go", "bakkie-xl", "truck", "moto", "courier", "assist"}
	tiers := make([]ServiceTier, 0, len(order))
	for _, id := range order {
		tiers = append(tiers, s.tiers[id])
	}
	return tiers
}

// Quote prices a distance for a tier. The distance charge rounds half-up to
// whole rand and never goes negative.
func (s *FareService) Quote(tierID string, distanceKm float64) (domain.FareQuote, error) {
	tier, ok := s.tiers[tierID]
	if !ok {
		return domain.FareQuote{}, ErrUnknownServiceTier
	}

	distance := roundHalfUp(distanceKm * float64(tier.PricePerKm))
	if distance < 0 {
		distance = 0
	}

	return domain.FareQuote{
		BaseFare:     tier.BasePrice,
		DistanceFare: distance,
		TotalFare:    tier.BasePrice + distance,
		DistanceKm:   distanceKm,
	}, nil
}

// CargoSurcharge computes the flat add-on for cargo weight plus the helper
// fee when assistance is requested and the tier does not include it. It is a
// separate step from Quote so both can be tested independently.
func (s *FareService) CargoSurcharge(weight domain.WeightClass, helpNeeded bool, tierID string) (int64, error) {
	tier, ok := s.tiers[tierID]
	if !ok {
		return 0, ErrUnknownServiceTier
	}

	if weight == "" {
		weight = domain.WeightLight
	}
	surcharge, ok := weightSurcharges[weight]
	if !ok {
		return 0, ErrUnknownWeightClass
	}

	if helpNeeded && !tier.IncludesHelper {
		surcharge += helperFee
	}
	return surcharge, nil
}

// roundHalfUp rounds to the nearest whole unit, ties away from zero.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
