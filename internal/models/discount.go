package models

import (
	"time"

	"github.com/google/uuid"
)

// Discount is a flat percentage applied once at ticket pricing time.
// It is never recomputed after the ticket is persisted.
type Discount struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Percentage  float64   `json:"percentage" db:"percentage"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateDiscountRequest is the payload for discount creation
type CreateDiscountRequest struct {
	Code        string  `json:"code" binding:"required"`
	Percentage  float64 `json:"percentage" binding:"required,gt=0,lte=100"`
	Description *string `json:"description,omitempty"`
}
