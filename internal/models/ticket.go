package models

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is a priced, validated itinerary of one or more flight legs
// between a route's endpoints. All legs share a cabin class and a calendar
// day, run in chronological order, and chain arrival to departure airport.
type Ticket struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	RouteID              uuid.UUID  `json:"route_id" db:"route_id"`
	DiscountID           *uuid.UUID `json:"discount_id,omitempty" db:"discount_id"`
	SeatClass            SeatClass  `json:"seat_class" db:"seat_class"`
	TotalPrice           float64    `json:"total_price" db:"total_price"`
	TotalDiscountedPrice float64    `json:"total_discounted_price" db:"total_discounted_price"`
	TotalDurationMinutes int        `json:"total_duration_minutes" db:"total_duration_minutes"`
	DepartureTime        time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime          time.Time  `json:"arrival_time" db:"arrival_time"`
	IsTransits           bool       `json:"is_transits" db:"is_transits"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`

	// Legs in itinerary order, populated on lookup
	Flights []Flight `json:"flights,omitempty"`
}

// TicketFlight links a ticket to one leg, preserving itinerary order
type TicketFlight struct {
	TicketID uuid.UUID `json:"ticket_id" db:"ticket_id"`
	FlightID uuid.UUID `json:"flight_id" db:"flight_id"`
	Position int       `json:"position" db:"position"`
}

// CreateTicketRequest is the payload for ticket construction
type CreateTicketRequest struct {
	RouteID    string   `json:"route_id" binding:"required,uuid"`
	FlightIDs  []string `json:"flight_ids" binding:"required,min=1,dive,uuid"`
	DiscountID *string  `json:"discount_id,omitempty"`
}
