package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// FlightHandler handles flight and seat requests
type FlightHandler struct {
	flightRepo *database.FlightRepository
	seatRepo   *database.SeatRepository
	routeRepo  *database.RouteRepository
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(
	flightRepo *database.FlightRepository,
	seatRepo *database.SeatRepository,
	routeRepo *database.RouteRepository,
) *FlightHandler {
	return &FlightHandler{
		flightRepo: flightRepo,
		seatRepo:   seatRepo,
		routeRepo:  routeRepo,
	}
}

// Create handles POST /api/v1/flights. The flight's seats are created
// in the same transaction; capacity is fixed from this point on.
func (h *FlightHandler) Create(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !req.SeatClass.Valid() {
		respondError(c, models.NewFieldValidationError("seat_class", "must be economy, business or first"))
		return
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		respondError(c, models.NewFieldValidationError("arrival_time", "must be after departure_time"))
		return
	}

	routeID := uuid.MustParse(req.RouteID)
	route, err := h.routeRepo.GetByID(routeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if route == nil {
		respondError(c, models.NewNotFoundError("route"))
		return
	}

	flight := &models.Flight{
		Code:           req.Code,
		RouteID:        routeID,
		AirlineID:      uuid.MustParse(req.AirlineID),
		SeatClass:      req.SeatClass,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		BaggageKG:      req.BaggageKG,
		CabinBaggageKG: req.CabinBaggageKG,
		Capacity:       req.Capacity,
		Price:          req.Price,
	}
	if req.DepartureTerminalID != nil {
		id, err := uuid.Parse(*req.DepartureTerminalID)
		if err != nil {
			respondError(c, models.NewFieldValidationError("departure_terminal_id", "invalid uuid"))
			return
		}
		flight.DepartureTerminalID = &id
	}
	if req.ArrivalTerminalID != nil {
		id, err := uuid.Parse(*req.ArrivalTerminalID)
		if err != nil {
			respondError(c, models.NewFieldValidationError("arrival_terminal_id", "invalid uuid"))
			return
		}
		flight.ArrivalTerminalID = &id
	}

	if err := h.flightRepo.CreateWithSeats(flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

// List handles GET /api/v1/flights with optional ?route_id= and ?date=
// (YYYY-MM-DD) filters
func (h *FlightHandler) List(c *gin.Context) {
	var routeID *uuid.UUID
	if raw := c.Query("route_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid route_id format",
			})
			return
		}
		routeID = &id
	}

	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		day = &parsed
	}

	flights, err := h.flightRepo.List(routeID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": flights})
}

// Get handles GET /api/v1/flights/:id
func (h *FlightHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	flight, err := h.flightRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if flight == nil {
		respondError(c, models.NewNotFoundError("flight"))
		return
	}
	c.JSON(http.StatusOK, flight)
}

// ListSeats handles GET /api/v1/flights/:id/seats
func (h *FlightHandler) ListSeats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	flight, err := h.flightRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if flight == nil {
		respondError(c, models.NewNotFoundError("flight"))
		return
	}

	seats, err := h.seatRepo.ListByFlight(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

// Delete handles DELETE /api/v1/flights/:id
func (h *FlightHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.flightRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
