package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bakkie/internal/domain"
	"bakkie/internal/service"
)

// TripHandler handles HTTP requests for the session's trip lifecycle.
type TripHandler struct {
	session *service.TripSession
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(session *service.TripSession) *TripHandler {
	return &TripHandler{session: session}
}

// RequestTripRequest is the HTTP request body for requesting a trip.
type RequestTripRequest struct {
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	ServiceTier     string `json:"service_tier"`
	CargoWeight     string `json:"cargo_weight,omitempty"` // light, medium, heavy, very-heavy
	CargoType       string `json:"cargo_type,omitempty"`
	HelpNeeded      bool   `json:"help_needed,omitempty"`
}

// DriverResponse is the driver block embedded in trip responses.
type DriverResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	Vehicle     string  `json:"vehicle"`
	PlateNumber string  `json:"plate_number"`
	Phone       string  `json:"phone"`
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID              string            `json:"id"`
	Status          string            `json:"status"`
	PickupLocation  string            `json:"pickup_location"`
	DropoffLocation string            `json:"dropoff_location"`
	ServiceTier     string            `json:"service_tier"`
	Fare            *domain.FareQuote `json:"fare,omitempty"`
	Driver          *DriverResponse   `json:"driver,omitempty"`
	CreatedAt       string            `json:"created_at"`
	CompletedAt     string            `json:"completed_at,omitempty"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	response := TripResponse{
		ID:              trip.ID,
		Status:          string(trip.Status),
		PickupLocation:  trip.Request.PickupLocation,
		DropoffLocation: trip.Request.DropoffLocation,
		ServiceTier:     trip.Request.ServiceTier,
		Fare:            trip.Fare,
		CreatedAt:       trip.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if trip.Driver != nil {
		response.Driver = &DriverResponse{
			ID:          trip.Driver.ID,
			Name:        trip.Driver.Name,
			Rating:      trip.Driver.Rating,
			Vehicle:     trip.Driver.Vehicle,
			PlateNumber: trip.Driver.PlateNumber,
			Phone:       trip.Driver.Phone,
		}
	}
	if !trip.CompletedAt.IsZero() {
		response.CompletedAt = trip.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// RequestTrip handles POST /v1/trips
func (h *TripHandler) RequestTrip(c *gin.Context) {
	var req RequestTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.session.RequestTrip(c.Request.Context(), domain.TripRequest{
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		ServiceTier:     req.ServiceTier,
		CargoWeight:     domain.WeightClass(req.CargoWeight),
		CargoType:       req.CargoType,
		HelpNeeded:      req.HelpNeeded,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// GetActiveTrip handles GET /v1/trips/active
func (h *TripHandler) GetActiveTrip(c *gin.Context) {
	trip := h.session.ActiveTrip()
	if trip == nil {
		respondError(c, service.ErrNoActiveTrip)
		return
	}
	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// StartTrip handles POST /v1/trips/active/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	trip, err := h.session.StartTrip(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// CancelTrip handles POST /v1/trips/active/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	if err := h.session.Cancel(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"status": string(domain.TripStatusIdle)})
}

// CompleteTrip handles POST /v1/trips/active/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	entry, err := h.session.Complete(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, entry)
}

// GetTelemetry handles GET /v1/trips/active/telemetry
func (h *TripHandler) GetTelemetry(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.session.Journey().Status())
}
