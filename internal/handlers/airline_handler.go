package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// AirlineHandler handles airline reference data requests
type AirlineHandler struct {
	airlineRepo *database.AirlineRepository
}

// NewAirlineHandler creates a new airline handler
func NewAirlineHandler(airlineRepo *database.AirlineRepository) *AirlineHandler {
	return &AirlineHandler{airlineRepo: airlineRepo}
}

// Create handles POST /api/v1/airlines
func (h *AirlineHandler) Create(c *gin.Context) {
	var req models.CreateAirlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	airline := &models.Airline{
		Name:    req.Name,
		Code:    req.Code,
		LogoURL: req.LogoURL,
	}
	if err := h.airlineRepo.Create(airline); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}

// List handles GET /api/v1/airlines
func (h *AirlineHandler) List(c *gin.Context) {
	airlines, err := h.airlineRepo.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"airlines": airlines})
}

// Get handles GET /api/v1/airlines/:id
func (h *AirlineHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	airline, err := h.airlineRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if airline == nil {
		respondError(c, models.NewNotFoundError("airline"))
		return
	}
	c.JSON(http.StatusOK, airline)
}

// Update handles PUT /api/v1/airlines/:id
func (h *AirlineHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateAirlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	airline := &models.Airline{
		ID:      id,
		Name:    req.Name,
		Code:    req.Code,
		LogoURL: req.LogoURL,
	}
	if err := h.airlineRepo.Update(airline); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

// Delete handles DELETE /api/v1/airlines/:id
func (h *AirlineHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.airlineRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
