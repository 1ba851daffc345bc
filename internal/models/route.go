package models

import (
	"time"

	"github.com/google/uuid"
)

// Route is a fixed departure/arrival airport pair with a precomputed
// great-circle distance, independent of any schedule.
type Route struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	DepartureAirportID uuid.UUID `json:"departure_airport_id" db:"departure_airport_id"`
	ArrivalAirportID   uuid.UUID `json:"arrival_airport_id" db:"arrival_airport_id"`
	DistanceKM         float64   `json:"distance_km" db:"distance_km"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest is the payload for route creation. Distance is never
// client-supplied; it is computed from the airports' coordinates.
type CreateRouteRequest struct {
	DepartureAirportID string `json:"departure_airport_id" binding:"required,uuid"`
	ArrivalAirportID   string `json:"arrival_airport_id" binding:"required,uuid"`
}
