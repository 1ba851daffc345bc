package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// TicketService validates multi-leg itineraries and constructs priced
// tickets from them.
type TicketService struct {
	routeRepo    *database.RouteRepository
	flightRepo   *database.FlightRepository
	discountRepo *database.DiscountRepository
	ticketRepo   *database.TicketRepository
	logger       *logrus.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(
	routeRepo *database.RouteRepository,
	flightRepo *database.FlightRepository,
	discountRepo *database.DiscountRepository,
	ticketRepo *database.TicketRepository,
	logger *logrus.Logger,
) *TicketService {
	return &TicketService{
		routeRepo:    routeRepo,
		flightRepo:   flightRepo,
		discountRepo: discountRepo,
		ticketRepo:   ticketRepo,
		logger:       logger,
	}
}

// CreateTicket validates the ordered legs against the route and persists
// the resulting ticket. Any validation failure aborts before anything is
// written.
func (s *TicketService) CreateTicket(req *models.CreateTicketRequest) (*models.Ticket, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, models.NewFieldValidationError("route_id", "invalid uuid")
	}

	route, err := s.routeRepo.GetByID(routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	if route == nil {
		return nil, models.NewNotFoundError("route")
	}

	flightIDs := make([]uuid.UUID, len(req.FlightIDs))
	unique := make(map[uuid.UUID]struct{}, len(req.FlightIDs))
	for i, raw := range req.FlightIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, models.NewFieldValidationError("flight_ids", "invalid uuid")
		}
		flightIDs[i] = id
		unique[id] = struct{}{}
	}

	found, err := s.flightRepo.GetByIDs(flightIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get flights: %w", err)
	}
	if len(found) != len(unique) {
		return nil, models.NewValidationError("some flights could not be found")
	}

	// Rebuild the legs in the requested order. Duplicate ids are kept as
	// distinct legs; connectivity and chronology reject them downstream.
	byID := make(map[uuid.UUID]models.Flight, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	legs := make([]models.Flight, len(flightIDs))
	for i, id := range flightIDs {
		legs[i] = byID[id]
	}

	if err := validateItinerary(route, legs); err != nil {
		return nil, err
	}

	var discount *models.Discount
	var discountID *uuid.UUID
	if req.DiscountID != nil && *req.DiscountID != "" {
		id, err := uuid.Parse(*req.DiscountID)
		if err != nil {
			return nil, models.NewFieldValidationError("discount_id", "invalid uuid")
		}
		discount, err = s.discountRepo.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get discount: %w", err)
		}
		if discount == nil {
			return nil, models.NewNotFoundError("discount")
		}
		discountID = &id
	}

	totalPrice, totalDuration := itineraryTotals(legs)
	discountedPrice := totalPrice
	if discount != nil {
		discountedPrice = totalPrice * (1 - discount.Percentage/100)
	}

	ticket := &models.Ticket{
		RouteID:              route.ID,
		DiscountID:           discountID,
		SeatClass:            legs[0].SeatClass,
		TotalPrice:           totalPrice,
		TotalDiscountedPrice: discountedPrice,
		TotalDurationMinutes: totalDuration,
		DepartureTime:        legs[0].DepartureTime,
		ArrivalTime:          legs[len(legs)-1].ArrivalTime,
		IsTransits:           len(legs) > 1,
	}

	if err := s.ticketRepo.CreateWithFlights(ticket, flightIDs); err != nil {
		return nil, err
	}
	ticket.Flights = legs

	s.logger.WithFields(logrus.Fields{
		"ticket_id":   ticket.ID,
		"route_id":    route.ID,
		"legs":        len(legs),
		"is_transits": ticket.IsTransits,
		"total_price": ticket.TotalDiscountedPrice,
	}).Info("Ticket created")

	return ticket, nil
}

// GetTicket retrieves a ticket with its legs
func (s *TicketService) GetTicket(id uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, models.NewNotFoundError("ticket")
	}
	return ticket, nil
}

// validateItinerary checks that the ordered legs form a coherent itinerary
// for the route: same calendar day, uniform cabin class, endpoints match
// the route, each arrival airport feeds the next departure airport, and
// times never move backwards. Layovers of zero are allowed.
func validateItinerary(route *models.Route, legs []models.Flight) error {
	if len(legs) == 0 {
		return models.NewValidationError("some flights could not be found")
	}

	// Calendar day comparison on the raw date portion; no timezone
	// normalization, itineraries spanning midnight UTC are rejected.
	day := legs[0].DepartureTime.Format("2006-01-02")
	for _, leg := range legs[1:] {
		if leg.DepartureTime.Format("2006-01-02") != day {
			return models.NewValidationError("flights must depart on the same day")
		}
	}

	class := legs[0].SeatClass
	for _, leg := range legs[1:] {
		if leg.SeatClass != class {
			return models.NewValidationError("flights must share the same seat class")
		}
	}

	if legs[0].DepartureAirportID != route.DepartureAirportID {
		return models.NewValidationError("first flight does not depart from the route's departure airport")
	}
	if legs[len(legs)-1].ArrivalAirportID != route.ArrivalAirportID {
		return models.NewValidationError("last flight does not arrive at the route's arrival airport")
	}

	for i := 1; i < len(legs); i++ {
		if legs[i-1].ArrivalAirportID != legs[i].DepartureAirportID {
			return models.NewValidationError("connecting flights do not match")
		}
	}

	for i := 1; i < len(legs); i++ {
		if legs[i].DepartureTime.Before(legs[i-1].ArrivalTime) {
			return models.NewValidationError("flights are not in sequential order by time")
		}
	}

	return nil
}

// itineraryTotals sums leg prices and durations. Layover time is not
// counted, only the legs themselves.
func itineraryTotals(legs []models.Flight) (price float64, durationMinutes int) {
	for _, leg := range legs {
		price += leg.Price
		durationMinutes += leg.DurationMinutes
	}
	return price, durationMinutes
}
