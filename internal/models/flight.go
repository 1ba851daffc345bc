package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatClass represents the cabin class of a flight.
// Matches PostgreSQL ENUM: seat_class
type SeatClass string

const (
	SeatClassEconomy  SeatClass = "economy"
	SeatClassBusiness SeatClass = "business"
	SeatClassFirst    SeatClass = "first"
)

// Valid reports whether the seat class is one of the known values
func (c SeatClass) Valid() bool {
	switch c {
	case SeatClassEconomy, SeatClassBusiness, SeatClassFirst:
		return true
	}
	return false
}

// Flight is one scheduled non-stop segment on a route. Its seats are
// created once at flight creation and the count never changes afterwards.
type Flight struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Code                string     `json:"code" db:"code"`
	RouteID             uuid.UUID  `json:"route_id" db:"route_id"`
	AirlineID           uuid.UUID  `json:"airline_id" db:"airline_id"`
	SeatClass           SeatClass  `json:"seat_class" db:"seat_class"`
	DepartureTerminalID *uuid.UUID `json:"departure_terminal_id,omitempty" db:"departure_terminal_id"`
	ArrivalTerminalID   *uuid.UUID `json:"arrival_terminal_id,omitempty" db:"arrival_terminal_id"`
	DepartureTime       time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime         time.Time  `json:"arrival_time" db:"arrival_time"`
	DurationMinutes     int        `json:"duration_minutes" db:"duration_minutes"`
	BaggageKG           int        `json:"baggage_kg" db:"baggage_kg"`
	CabinBaggageKG      int        `json:"cabin_baggage_kg" db:"cabin_baggage_kg"`
	Capacity            int        `json:"capacity" db:"capacity"`
	Price               float64    `json:"price" db:"price"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`

	// Joined route endpoints, populated by list/lookup queries
	DepartureAirportID uuid.UUID `json:"departure_airport_id,omitempty" db:"departure_airport_id"`
	ArrivalAirportID   uuid.UUID `json:"arrival_airport_id,omitempty" db:"arrival_airport_id"`
}

// Seat belongs to exactly one flight. is_occupied is the sole mutable
// field; seat identity is fixed at flight creation.
type Seat struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FlightID   uuid.UUID `json:"flight_id" db:"flight_id"`
	SeatNumber string    `json:"seat_number" db:"seat_number"`
	IsOccupied bool      `json:"is_occupied" db:"is_occupied"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CreateFlightRequest is the payload for flight creation
type CreateFlightRequest struct {
	Code                string    `json:"code" binding:"required"`
	RouteID             string    `json:"route_id" binding:"required,uuid"`
	AirlineID           string    `json:"airline_id" binding:"required,uuid"`
	SeatClass           SeatClass `json:"seat_class" binding:"required"`
	DepartureTerminalID *string   `json:"departure_terminal_id,omitempty"`
	ArrivalTerminalID   *string   `json:"arrival_terminal_id,omitempty"`
	DepartureTime       time.Time `json:"departure_time" binding:"required"`
	ArrivalTime         time.Time `json:"arrival_time" binding:"required"`
	BaggageKG           int       `json:"baggage_kg"`
	CabinBaggageKG      int       `json:"cabin_baggage_kg"`
	Capacity            int       `json:"capacity" binding:"required,min=1"`
	Price               float64   `json:"price" binding:"required,min=0"`
}
