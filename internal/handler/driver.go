package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bakkie/internal/repository"
)

// DriverHandler handles HTTP requests for the driver pool.
type DriverHandler struct {
	pool repository.DriverRepository
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(pool repository.DriverRepository) *DriverHandler {
	return &DriverHandler{pool: pool}
}

// GetDrivers handles GET /v1/drivers
func (h *DriverHandler) GetDrivers(c *gin.Context) {
	drivers, err := h.pool.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, DriverResponse{
			ID:          d.ID,
			Name:        d.Name,
			Rating:      d.Rating,
			Vehicle:     d.Vehicle,
			PlateNumber: d.PlateNumber,
			Phone:       d.Phone,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.pool.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DriverResponse{
		ID:          driver.ID,
		Name:        driver.Name,
		Rating:      driver.Rating,
		Vehicle:     driver.Vehicle,
		PlateNumber: driver.PlateNumber,
		Phone:       driver.Phone,
	})
}
