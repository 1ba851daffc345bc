package models

import (
	"time"

	"github.com/google/uuid"
)

// Airline represents an operating carrier
type Airline struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"logo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateAirlineRequest is the payload for airline creation
type CreateAirlineRequest struct {
	Name    string  `json:"name" binding:"required"`
	Code    string  `json:"code" binding:"required"`
	LogoURL *string `json:"logo_url,omitempty"`
}
