package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bakkie/internal/domain"
	"bakkie/internal/service"
)

// FavoritesHandler handles HTTP requests for saved locations.
type FavoritesHandler struct {
	favorites *service.FavoritesService
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(favorites *service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// AddFavoriteRequest is the HTTP request body for saving a location.
type AddFavoriteRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type,omitempty"` // home, work, other
}

// GetFavorites handles GET /v1/favorites
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	favorites := h.favorites.List(c.Request.Context())
	if favorites == nil {
		favorites = []domain.FavoriteLocation{}
	}
	respondJSON(c, http.StatusOK, favorites)
}

// AddFavorite handles POST /v1/favorites
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" || req.Address == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and address are required"})
		return
	}

	fav, err := h.favorites.Add(c.Request.Context(), req.Name, req.Address, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, fav)
}

// RemoveFavorite handles DELETE /v1/favorites/:id
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
