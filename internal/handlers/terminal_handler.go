package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// TerminalHandler handles terminal reference data requests
type TerminalHandler struct {
	terminalRepo *database.TerminalRepository
	airportRepo  *database.AirportRepository
}

// NewTerminalHandler creates a new terminal handler
func NewTerminalHandler(terminalRepo *database.TerminalRepository, airportRepo *database.AirportRepository) *TerminalHandler {
	return &TerminalHandler{terminalRepo: terminalRepo, airportRepo: airportRepo}
}

// Create handles POST /api/v1/terminals
func (h *TerminalHandler) Create(c *gin.Context) {
	var req models.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	airportID := uuid.MustParse(req.AirportID)
	airport, err := h.airportRepo.GetByID(airportID)
	if err != nil {
		respondError(c, err)
		return
	}
	if airport == nil {
		respondError(c, models.NewNotFoundError("airport"))
		return
	}

	terminal := &models.Terminal{
		AirportID: airportID,
		Name:      req.Name,
	}
	if err := h.terminalRepo.Create(terminal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, terminal)
}

// ListByAirport handles GET /api/v1/airports/:id/terminals
func (h *TerminalHandler) ListByAirport(c *gin.Context) {
	airportID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	terminals, err := h.terminalRepo.ListByAirport(airportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"terminals": terminals})
}

// Get handles GET /api/v1/terminals/:id
func (h *TerminalHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	terminal, err := h.terminalRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if terminal == nil {
		respondError(c, models.NewNotFoundError("terminal"))
		return
	}
	c.JSON(http.StatusOK, terminal)
}

// Update handles PUT /api/v1/terminals/:id
func (h *TerminalHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	terminal := &models.Terminal{
		ID:        id,
		AirportID: uuid.MustParse(req.AirportID),
		Name:      req.Name,
	}
	if err := h.terminalRepo.Update(terminal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, terminal)
}

// Delete handles DELETE /api/v1/terminals/:id
func (h *TerminalHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.terminalRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
