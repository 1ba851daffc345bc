package models

import (
	"time"

	"github.com/google/uuid"
)

// City represents a city that one or more airports belong to
type City struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Airport represents a single airport with its geographic position.
// Latitude/longitude feed the route distance computation.
type Airport struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CityID    uuid.UUID `json:"city_id" db:"city_id"`
	Name      string    `json:"name" db:"name"`
	IataCode  string    `json:"iata_code" db:"iata_code"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Terminal represents a terminal building within an airport
type Terminal struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AirportID uuid.UUID `json:"airport_id" db:"airport_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCityRequest is the payload for city creation
type CreateCityRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// CreateAirportRequest is the payload for airport creation
type CreateAirportRequest struct {
	CityID    string  `json:"city_id" binding:"required,uuid"`
	Name      string  `json:"name" binding:"required"`
	IataCode  string  `json:"iata_code" binding:"required,len=3"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// CreateTerminalRequest is the payload for terminal creation
type CreateTerminalRequest struct {
	AirportID string `json:"airport_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
}
