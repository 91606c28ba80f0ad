package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bakkie/internal/service"
)

// SafetyHandler handles HTTP requests for the trusted contact and the driver
// earnings dashboard.
type SafetyHandler struct {
	safety   *service.SafetyService
	earnings *service.EarningsService
}

// NewSafetyHandler creates a new SafetyHandler.
func NewSafetyHandler(safety *service.SafetyService, earnings *service.EarningsService) *SafetyHandler {
	return &SafetyHandler{safety: safety, earnings: earnings}
}

// SetContactRequest is the HTTP request body for saving the trusted contact.
type SetContactRequest struct {
	Phone string `json:"phone"`
}

// GetTrustedContact handles GET /v1/safety/contact
func (h *SafetyHandler) GetTrustedContact(c *gin.Context) {
	contact, ok := h.safety.TrustedContact(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no trusted contact set"})
		return
	}
	respondJSON(c, http.StatusOK, contact)
}

// SetTrustedContact handles PUT /v1/safety/contact
func (h *SafetyHandler) SetTrustedContact(c *gin.Context) {
	var req SetContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.safety.SetTrustedContact(c.Request.Context(), req.Phone); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"phone": req.Phone})
}

// GetEarnings handles GET /v1/driver/earnings
func (h *SafetyHandler) GetEarnings(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.earnings.Earnings(c.Request.Context()))
}
