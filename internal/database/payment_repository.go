package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateTx inserts a pending payment inside the caller's transaction
func (r *PaymentRepository) CreateTx(tx *sqlx.Tx, payment *models.Payment) error {
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	_, err := tx.Exec(`
		INSERT INTO payments (
			id, gateway_order_id, token, amount, valid_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID, payment.GatewayOrderID, payment.Token, payment.Amount,
		payment.ValidUntil, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByGatewayOrderID retrieves a payment by the id the gateway knows it
// by, nil if absent
func (r *PaymentRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Get(&payment, `SELECT * FROM payments WHERE gateway_order_id = $1`, gatewayOrderID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return &payment, nil
}

// GetByID retrieves a payment by id, nil if absent
func (r *PaymentRepository) GetByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Get(&payment, `SELECT * FROM payments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return &payment, nil
}

// UpdateFromWebhookTx applies a gateway notification inside the caller's
// transaction. payment_date is written through COALESCE so only the first
// settled transition sets it; later deliveries rewrite the same values and
// are idempotent at the data level.
func (r *PaymentRepository) UpdateFromWebhookTx(
	tx *sqlx.Tx,
	paymentID uuid.UUID,
	status models.TransactionStatus,
	method, fraudStatus string,
	validUntil *time.Time,
	raw models.RawPayload,
) error {
	query := `
		UPDATE payments
		SET status = $2,
		    method = $3,
		    fraud_status = $4,
		    valid_until = COALESCE($5, valid_until),
		    raw_payload = $6,
		    updated_at = NOW()`
	if status.Settled() {
		query += `, payment_date = COALESCE(payment_date, NOW())`
	}
	query += ` WHERE id = $1`

	result, err := tx.Exec(query, paymentID, status, method, fraudStatus, validUntil, raw)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("payment")
	}
	return nil
}
