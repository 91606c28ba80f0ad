package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bakkie/internal/service"
)

// SettingsHandler handles HTTP requests for client settings.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SetThemeRequest is the HTTP request body for persisting the theme.
type SetThemeRequest struct {
	Theme string `json:"theme"` // light or dark
}

// SetFlagRequest is the HTTP request body for toggling a tier flag.
type SetFlagRequest struct {
	ServiceTier string `json:"service_tier"`
	Enabled     bool   `json:"enabled"`
}

// GetTheme handles GET /v1/settings/theme
func (h *SettingsHandler) GetTheme(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"theme": h.settings.Theme(c.Request.Context())})
}

// SetTheme handles PUT /v1/settings/theme
func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var req SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.settings.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"theme": req.Theme})
}

// GetServiceFlags handles GET /v1/settings/flags
func (h *SettingsHandler) GetServiceFlags(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.settings.ServiceFlags(c.Request.Context()))
}

// SetServiceFlag handles PUT /v1/settings/flags
func (h *SettingsHandler) SetServiceFlag(c *gin.Context) {
	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.settings.SetServiceFlag(c.Request.Context(), req.ServiceTier, req.Enabled); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.settings.ServiceFlags(c.Request.Context()))
}
