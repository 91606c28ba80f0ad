package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bakkie/internal/domain"
	"bakkie/internal/repository"
	"bakkie/internal/service"
)

// HistoryHandler handles HTTP requests for the trip history.
type HistoryHandler struct {
	history *service.HistoryService
	archive repository.HistoryArchive
}

// NewHistoryHandler creates a new HistoryHandler. archive may be nil when no
// long-term store is configured.
func NewHistoryHandler(history *service.HistoryService, archive repository.HistoryArchive) *HistoryHandler {
	return &HistoryHandler{history: history, archive: archive}
}

// GetHistory handles GET /v1/history
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	entries := h.history.List(c.Request.Context())
	if entries == nil {
		entries = []domain.TripHistoryEntry{}
	}
	respondJSON(c, http.StatusOK, entries)
}

// GetArchive handles GET /v1/history/archive
func (h *HistoryHandler) GetArchive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "archive not configured"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.archive.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, entries)
}
