package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// OrderRepository handles order and passenger database operations
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// BeginTx starts a transaction for the reserve/order/passenger sequence
func (r *OrderRepository) BeginTx() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

// CreateTx inserts an order inside the caller's transaction
func (r *OrderRepository) CreateTx(tx *sqlx.Tx, order *models.Order) error {
	order.ID = uuid.New()
	order.Status = models.OrderStatusUnpaid
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	_, err := tx.Exec(`
		INSERT INTO orders (
			id, user_id, outbound_ticket_id, return_ticket_id, is_round_trip,
			payment_id, status, booking_date, detail_price, total_price,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID, order.UserID, order.OutboundTicketID, order.ReturnTicketID, order.IsRoundTrip,
		order.PaymentID, order.Status, order.BookingDate, order.DetailPrice, order.TotalPrice,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreatePassengerTx inserts a passenger inside the caller's transaction
func (r *OrderRepository) CreatePassengerTx(tx *sqlx.Tx, passenger *models.Passenger) error {
	passenger.ID = uuid.New()
	passenger.CreatedAt = time.Now()

	_, err := tx.Exec(`
		INSERT INTO passengers (
			id, order_id, type, title, name, family_name,
			date_of_birth, nationality, identifier_number, issued_country,
			id_valid_until, seat_ids, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		passenger.ID, passenger.OrderID, passenger.Type, passenger.Title,
		passenger.Name, passenger.FamilyName, passenger.DateOfBirth,
		passenger.Nationality, passenger.IdentifierNumber, passenger.IssuedCountry,
		passenger.IDValidUntil, pq.Array([]string(passenger.SeatIDs)), passenger.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create passenger: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its passengers, nil if absent
func (r *OrderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.Get(&order, `SELECT * FROM orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	err = r.db.Select(&order.Passengers, `
		SELECT * FROM passengers WHERE order_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch passengers: %w", err)
	}

	return &order, nil
}

// GetByPaymentID retrieves the order owning a payment, nil if absent
func (r *OrderRepository) GetByPaymentID(paymentID uuid.UUID) (*models.Order, error) {
	var orderID uuid.UUID
	err := r.db.Get(&orderID, `SELECT id FROM orders WHERE payment_id = $1`, paymentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order by payment: %w", err)
	}
	return r.GetByID(orderID)
}

// ListByUser returns a user's orders, newest first
func (r *OrderRepository) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Select(&orders, `
		SELECT * FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// TransitionStatusTx moves an order out of 'unpaid' inside the caller's
// transaction. The returned bool reports whether THIS call performed the
// transition; duplicate webhook deliveries see false and must skip side
// effects.
func (r *OrderRepository) TransitionStatusTx(tx *sqlx.Tx, orderID uuid.UUID, to models.OrderStatus) (bool, error) {
	result, err := tx.Exec(`
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'unpaid'`, orderID, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition order: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

// SetQRCodeIfEmpty stores the ticket artifact once. The IS NULL guard
// keeps document generation idempotent across redeliveries.
func (r *OrderRepository) SetQRCodeIfEmpty(orderID uuid.UUID, data string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE orders
		SET qr_code_data = $2, updated_at = NOW()
		WHERE id = $1 AND qr_code_data IS NULL`, orderID, data)
	if err != nil {
		return false, fmt.Errorf("failed to store qr code: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

// MarkNotified records that the user-visible success notifications were
// sent for this order. Guarded so they never double-fire.
func (r *OrderRepository) MarkNotified(orderID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE orders
		SET notified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND notified_at IS NULL`, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to mark order notified: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}
