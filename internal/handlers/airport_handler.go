package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// AirportHandler handles airport reference data requests
type AirportHandler struct {
	airportRepo *database.AirportRepository
	cityRepo    *database.CityRepository
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(airportRepo *database.AirportRepository, cityRepo *database.CityRepository) *AirportHandler {
	return &AirportHandler{airportRepo: airportRepo, cityRepo: cityRepo}
}

// Create handles POST /api/v1/airports
func (h *AirportHandler) Create(c *gin.Context) {
	var req models.CreateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cityID := uuid.MustParse(req.CityID)
	city, err := h.cityRepo.GetByID(cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	if city == nil {
		respondError(c, models.NewNotFoundError("city"))
		return
	}

	airport := &models.Airport{
		CityID:    cityID,
		Name:      req.Name,
		IataCode:  req.IataCode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.airportRepo.Create(airport); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}

// List handles GET /api/v1/airports with optional ?city_id= filter
func (h *AirportHandler) List(c *gin.Context) {
	var cityID *uuid.UUID
	if raw := c.Query("city_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid city_id format",
			})
			return
		}
		cityID = &id
	}

	airports, err := h.airportRepo.List(cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"airports": airports})
}

// Get handles GET /api/v1/airports/:id
func (h *AirportHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	airport, err := h.airportRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if airport == nil {
		respondError(c, models.NewNotFoundError("airport"))
		return
	}
	c.JSON(http.StatusOK, airport)
}

// Update handles PUT /api/v1/airports/:id
func (h *AirportHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	airport := &models.Airport{
		ID:        id,
		CityID:    uuid.MustParse(req.CityID),
		Name:      req.Name,
		IataCode:  req.IataCode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.airportRepo.Update(airport); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

// Delete handles DELETE /api/v1/airports/:id
func (h *AirportHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.airportRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
