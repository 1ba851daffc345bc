package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the gateway's view of a payment.
// Values follow the gateway's webhook vocabulary.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusSettlement TransactionStatus = "settlement"
	TransactionStatusCapture    TransactionStatus = "capture"
	TransactionStatusCancel     TransactionStatus = "cancel"
	TransactionStatusDeny       TransactionStatus = "deny"
	TransactionStatusExpire     TransactionStatus = "expire"
)

// orderStatusByTransaction is the explicit transition table driving order
// status from gateway transaction status. Statuses missing from the table
// map to OrderStatusUnknown so unhandled gateway values fail loudly.
var orderStatusByTransaction = map[TransactionStatus]OrderStatus{
	TransactionStatusPending:    OrderStatusUnpaid,
	TransactionStatusSettlement: OrderStatusIssued,
	TransactionStatusCapture:    OrderStatusIssued,
	TransactionStatusCancel:     OrderStatusCancelled,
	TransactionStatusDeny:       OrderStatusCancelled,
	TransactionStatusExpire:     OrderStatusExpired,
}

// OrderStatusFor maps a gateway transaction status to the resulting order
// status. The second return reports whether the status was recognized.
func OrderStatusFor(ts TransactionStatus) (OrderStatus, bool) {
	status, ok := orderStatusByTransaction[ts]
	if !ok {
		return OrderStatusUnknown, false
	}
	return status, true
}

// Settled reports whether the transaction status represents money captured
func (ts TransactionStatus) Settled() bool {
	return ts == TransactionStatusSettlement || ts == TransactionStatusCapture
}

// RawPayload stores the last gateway webhook body verbatim, as JSONB
type RawPayload map[string]interface{}

func (p RawPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *RawPayload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed for RawPayload")
	}
	return json.Unmarshal(bytes, p)
}

// Payment is the 1:1 payment record of an order. payment_date is set only
// on the first transition into a settled state and never overwritten.
type Payment struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	GatewayOrderID string             `json:"gateway_order_id" db:"gateway_order_id"`
	Token          string             `json:"token" db:"token"`
	Amount         float64            `json:"amount" db:"amount"`
	Method         *string            `json:"method,omitempty" db:"method"`
	Status         *TransactionStatus `json:"status,omitempty" db:"status"`
	FraudStatus    *string            `json:"fraud_status,omitempty" db:"fraud_status"`
	ValidUntil     *time.Time         `json:"valid_until,omitempty" db:"valid_until"`
	PaymentDate    *time.Time         `json:"payment_date,omitempty" db:"payment_date"`
	RawPayload     RawPayload         `json:"-" db:"raw_payload"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// WebhookNotification is the inbound payload from the payment gateway.
// Amount and status code arrive as strings, exactly as the gateway sends
// them; the signature is computed over those string forms.
type WebhookNotification struct {
	OrderID           string `json:"order_id" binding:"required"`
	StatusCode        string `json:"status_code" binding:"required"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	TransactionID     string `json:"transaction_id"`
	FraudStatus       string `json:"fraud_status"`
	ExpiryTime        string `json:"expiry_time"`
	PaymentType       string `json:"payment_type"`
}
