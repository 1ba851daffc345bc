package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderStatus represents the lifecycle of an order. It is driven only by
// payment transitions, never set directly by the client.
// Matches PostgreSQL ENUM: order_status
type OrderStatus string

const (
	OrderStatusUnpaid    OrderStatus = "unpaid"
	OrderStatusIssued    OrderStatus = "issued"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
	// OrderStatusUnknown is a terminal tag for unmapped gateway statuses.
	// Orders here need operator attention, they are never silently dropped.
	OrderStatusUnknown OrderStatus = "unknown"
)

// Terminal reports whether the status admits no further transition
func (s OrderStatus) Terminal() bool {
	return s != OrderStatusUnpaid
}

// DetailPriceItem is one line of the client-submitted price breakdown.
// The breakdown is stored as a snapshot; the charge amount itself is
// recomputed server-side and reconciled against it.
type DetailPriceItem struct {
	Type       string  `json:"type"`
	Amount     int     `json:"amount"`
	TotalPrice float64 `json:"total_price"`
}

// DetailPrice is the full breakdown, persisted as JSONB
type DetailPrice []DetailPriceItem

func (d DetailPrice) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DetailPrice) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed for DetailPrice")
	}
	return json.Unmarshal(bytes, d)
}

// Order binds a user, one outbound ticket, an optional return ticket, a
// payment and a set of passengers.
type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	UserID           uuid.UUID   `json:"user_id" db:"user_id"`
	OutboundTicketID uuid.UUID   `json:"outbound_ticket_id" db:"outbound_ticket_id"`
	ReturnTicketID   *uuid.UUID  `json:"return_ticket_id,omitempty" db:"return_ticket_id"`
	IsRoundTrip      bool        `json:"is_round_trip" db:"is_round_trip"`
	PaymentID        uuid.UUID   `json:"payment_id" db:"payment_id"`
	Status           OrderStatus `json:"status" db:"status"`
	BookingDate      time.Time   `json:"booking_date" db:"booking_date"`
	DetailPrice      DetailPrice `json:"detail_price" db:"detail_price"`
	TotalPrice       float64     `json:"total_price" db:"total_price"`
	QRCodeData       *string     `json:"qr_code_data,omitempty" db:"qr_code_data"`
	NotifiedAt       *time.Time  `json:"notified_at,omitempty" db:"notified_at"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`

	Passengers []Passenger `json:"passengers,omitempty"`
}

// PassengerType distinguishes fare categories
type PassengerType string

const (
	PassengerTypeAdult  PassengerType = "adult"
	PassengerTypeChild  PassengerType = "child"
	PassengerTypeInfant PassengerType = "infant"
)

// Passenger is one named traveler on an order. Identity fields are
// immutable once created; rows live and die with their order.
type Passenger struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	OrderID          uuid.UUID      `json:"order_id" db:"order_id"`
	Type             PassengerType  `json:"type" db:"type"`
	Title            string         `json:"title" db:"title"`
	Name             string         `json:"name" db:"name"`
	FamilyName       *string        `json:"family_name,omitempty" db:"family_name"`
	DateOfBirth      time.Time      `json:"date_of_birth" db:"date_of_birth"`
	Nationality      string         `json:"nationality" db:"nationality"`
	IdentifierNumber string         `json:"identifier_number" db:"identifier_number"`
	IssuedCountry    string         `json:"issued_country" db:"issued_country"`
	IDValidUntil     time.Time      `json:"id_valid_until" db:"id_valid_until"`
	SeatIDs          pq.StringArray `json:"seat_ids" db:"seat_ids"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// OrderPassengerRequest carries one passenger with one seat per leg traveled
type OrderPassengerRequest struct {
	SeatIDs          []string      `json:"seat_ids" binding:"required,min=1,dive,uuid"`
	Type             PassengerType `json:"type" binding:"required"`
	Title            string        `json:"title" binding:"required"`
	Name             string        `json:"name" binding:"required"`
	FamilyName       *string       `json:"family_name,omitempty"`
	DateOfBirth      time.Time     `json:"date_of_birth" binding:"required"`
	Nationality      string        `json:"nationality" binding:"required"`
	IdentifierNumber string        `json:"identifier_number" binding:"required"`
	IssuedCountry    string        `json:"issued_country" binding:"required"`
	IDValidUntil     time.Time     `json:"id_valid_until" binding:"required"`
}

// CreateOrderRequest is the payload for order creation
type CreateOrderRequest struct {
	OutboundTicketID string                  `json:"outbound_ticket_id" binding:"required,uuid"`
	ReturnTicketID   *string                 `json:"return_ticket_id,omitempty"`
	DetailPrice      DetailPrice             `json:"detail_price" binding:"required,min=1"`
	Passengers       []OrderPassengerRequest `json:"passengers" binding:"required,min=1"`
}
