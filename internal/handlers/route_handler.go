package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
	"github.com/skytrip/flight-booking-backend/internal/utils"
)

// RouteHandler handles route reference data requests. Route distance is
// always derived from the airports' coordinates, never taken from the
// request.
type RouteHandler struct {
	routeRepo   *database.RouteRepository
	airportRepo *database.AirportRepository
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeRepo *database.RouteRepository, airportRepo *database.AirportRepository) *RouteHandler {
	return &RouteHandler{routeRepo: routeRepo, airportRepo: airportRepo}
}

// Create handles POST /api/v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	route, err := h.buildRoute(req)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.routeRepo.Create(route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

// List handles GET /api/v1/routes
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routeRepo.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// Get handles GET /api/v1/routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	route, err := h.routeRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if route == nil {
		respondError(c, models.NewNotFoundError("route"))
		return
	}
	c.JSON(http.StatusOK, route)
}

// Update handles PUT /api/v1/routes/:id, recomputing the distance for
// the new airport pair
func (h *RouteHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	route, err := h.buildRoute(req)
	if err != nil {
		respondError(c, err)
		return
	}
	route.ID = id
	if err := h.routeRepo.Update(route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// Delete handles DELETE /api/v1/routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.routeRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RouteHandler) buildRoute(req models.CreateRouteRequest) (*models.Route, error) {
	departureID := uuid.MustParse(req.DepartureAirportID)
	arrivalID := uuid.MustParse(req.ArrivalAirportID)
	if departureID == arrivalID {
		return nil, models.NewFieldValidationError("arrival_airport_id", "departure and arrival airports must differ")
	}

	departure, err := h.airportRepo.GetByID(departureID)
	if err != nil {
		return nil, err
	}
	if departure == nil {
		return nil, models.NewNotFoundError("departure airport")
	}
	arrival, err := h.airportRepo.GetByID(arrivalID)
	if err != nil {
		return nil, err
	}
	if arrival == nil {
		return nil, models.NewNotFoundError("arrival airport")
	}

	return &models.Route{
		DepartureAirportID: departureID,
		ArrivalAirportID:   arrivalID,
		DistanceKM: utils.HaversineKM(
			departure.Latitude, departure.Longitude,
			arrival.Latitude, arrival.Longitude,
		),
	}, nil
}
