package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// CityHandler handles city reference data requests
type CityHandler struct {
	cityRepo *database.CityRepository
}

// NewCityHandler creates a new city handler
func NewCityHandler(cityRepo *database.CityRepository) *CityHandler {
	return &CityHandler{cityRepo: cityRepo}
}

// Create handles POST /api/v1/cities
func (h *CityHandler) Create(c *gin.Context) {
	var req models.CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	city := &models.City{
		Name: req.Name,
		Code: req.Code,
	}
	if err := h.cityRepo.Create(city); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, city)
}

// List handles GET /api/v1/cities
func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.cityRepo.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// Get handles GET /api/v1/cities/:id
func (h *CityHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	city, err := h.cityRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if city == nil {
		respondError(c, models.NewNotFoundError("city"))
		return
	}
	c.JSON(http.StatusOK, city)
}

// Update handles PUT /api/v1/cities/:id
func (h *CityHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	city := &models.City{
		ID:   id,
		Name: req.Name,
		Code: req.Code,
	}
	if err := h.cityRepo.Update(city); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

// Delete handles DELETE /api/v1/cities/:id
func (h *CityHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.cityRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
