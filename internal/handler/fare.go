package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bakkie/internal/domain"
	"bakkie/internal/service"
)

// FareHandler handles HTTP requests for tiers and quotes.
type FareHandler struct {
	fare     *service.FareService
	distance service.DistanceEstimator
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(fare *service.FareService, distance service.DistanceEstimator) *FareHandler {
	return &FareHandler{fare: fare, distance: distance}
}

// TierResponse is one row of the pricing table.
type TierResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BasePrice      int64  `json:"base_price"`
	PricePerKm     int64  `json:"price_per_km"`
	MaxWeightKg    int    `json:"max_weight_kg"`
	Vehicle        string `json:"vehicle"`
	Description    string `json:"description"`
	IncludesHelper bool   `json:"includes_helper"`
}

// QuoteRequest is the HTTP request body for pricing a trip.
type QuoteRequest struct {
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	ServiceTier     string `json:"service_tier"`
	CargoWeight     string `json:"cargo_weight,omitempty"`
	HelpNeeded      bool   `json:"help_needed,omitempty"`
}

// QuoteResponse is the priced breakdown for a quote request.
type QuoteResponse struct {
	BaseFare     int64   `json:"base_fare"`
	DistanceFare int64   `json:"distance_fare"`
	Surcharge    int64   `json:"surcharge"`
	TotalFare    int64   `json:"total_fare"`
	DistanceKm   float64 `json:"distance_km"`
}

// GetTiers handles GET /v1/tiers
func (h *FareHandler) GetTiers(c *gin.Context) {
	tiers := h.fare.Tiers()
	response := make([]TierResponse, 0, len(tiers))
	for _, t := range tiers {
		response = append(response, TierResponse{
			ID:             t.ID,
			Name:           t.Name,
			BasePrice:      t.BasePrice,
			PricePerKm:     t.PricePerKm,
			MaxWeightKg:    t.MaxWeightKg,
			Vehicle:        t.Vehicle,
			Description:    t.Description,
			IncludesHelper: t.IncludesHelper,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// CreateQuote handles POST /v1/quotes
func (h *FareHandler) CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.PickupLocation == "" || req.DropoffLocation == "" {
		respondError(c, service.ErrMissingLocations)
		return
	}

	distanceKm := h.distance.Estimate(req.PickupLocation, req.DropoffLocation)
	quote, err := h.fare.Quote(req.ServiceTier, distanceKm)
	if err != nil {
		respondError(c, err)
		return
	}
	surcharge, err := h.fare.CargoSurcharge(domain.WeightClass(req.CargoWeight), req.HelpNeeded, req.ServiceTier)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		BaseFare:     quote.BaseFare,
		DistanceFare: quote.DistanceFare,
		Surcharge:    surcharge,
		TotalFare:    quote.TotalFare + surcharge,
		DistanceKm:   quote.DistanceKm,
	})
}
