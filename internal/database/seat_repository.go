package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// SeatRepository handles seat inventory operations. Seats are the only
// shared mutable resource with contention; every write here is either a
// single conditional statement or runs inside a caller-owned transaction.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// ListByFlight returns all seats of a flight in seat-number order
func (r *SeatRepository) ListByFlight(flightID uuid.UUID) ([]models.Seat, error) {
	var seats []models.Seat
	err := r.db.Select(&seats, `
		SELECT * FROM seats
		WHERE flight_id = $1
		ORDER BY length(seat_number), seat_number`, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return seats, nil
}

// GetByIDs retrieves seats for a set of ids. Unknown ids shrink the result.
func (r *SeatRepository) GetByIDs(ids []uuid.UUID) ([]models.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM seats WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat lookup: %w", err)
	}
	query = r.db.Rebind(query)
	var seats []models.Seat
	if err := r.db.Select(&seats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch seats: %w", err)
	}
	return seats, nil
}

// FindOccupied returns the first requested seat that is already occupied,
// or nil if all are free. This is a pre-flight check only; the reservation
// itself is the conditional update in ReserveTx.
func (r *SeatRepository) FindOccupied(ids []uuid.UUID) (*models.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT * FROM seats
		WHERE id IN (?) AND is_occupied = TRUE
		LIMIT 1`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build availability check: %w", err)
	}
	query = r.db.Rebind(query)

	var seat models.Seat
	err = r.db.Get(&seat, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check seat availability: %w", err)
	}
	return &seat, nil
}

// ReserveTx marks the given seats occupied inside the caller's
// transaction. The WHERE guard plus row-count check closes the
// check-then-act window: if any seat was taken since the availability
// check, fewer rows match, the caller rolls back and the losing booking
// gets a SeatConflictError naming the contested seats.
func (r *SeatRepository) ReserveTx(tx *sqlx.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		UPDATE seats
		SET is_occupied = TRUE, updated_at = NOW()
		WHERE id IN (?) AND is_occupied = FALSE`, ids)
	if err != nil {
		return fmt.Errorf("failed to build reservation: %w", err)
	}

	query = tx.Rebind(query)
	result, err := tx.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	rows, _ := result.RowsAffected()
	if int(rows) != len(ids) {
		taken, lookupErr := r.findTakenTx(tx, ids)
		if lookupErr != nil {
			taken = nil
		}
		return &models.SeatConflictError{SeatIDs: taken}
	}
	return nil
}

// findTakenTx names the seats that blocked a reservation, for the error
func (r *SeatRepository) findTakenTx(tx *sqlx.Tx, ids []uuid.UUID) ([]string, error) {
	query, args, err := sqlx.In(`
		SELECT id FROM seats
		WHERE id IN (?) AND is_occupied = TRUE`, ids)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	var takenIDs []uuid.UUID
	if err := tx.Select(&takenIDs, query, args...); err != nil {
		return nil, err
	}
	taken := make([]string, len(takenIDs))
	for i, id := range takenIDs {
		taken[i] = id.String()
	}
	return taken, nil
}

// ReleaseByOrderTx frees every seat referenced by the order's passengers,
// inside the caller's transaction. The is_occupied guard makes repeated
// release (duplicate webhook deliveries, cancel after expire) a no-op.
func (r *SeatRepository) ReleaseByOrderTx(tx *sqlx.Tx, orderID uuid.UUID) (int, error) {
	result, err := tx.Exec(`
		UPDATE seats
		SET is_occupied = FALSE, updated_at = NOW()
		WHERE is_occupied = TRUE
		  AND id IN (
			SELECT unnest(seat_ids)::uuid FROM passengers WHERE order_id = $1
		  )`, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// SetOccupied bulk-sets the occupied flag outside any transaction.
// Unknown ids are silently skipped, matching bulk-update semantics; the
// booking path never uses this, it exists for operational tooling.
func (r *SeatRepository) SetOccupied(ids []uuid.UUID, value bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE seats
		SET is_occupied = ?, updated_at = NOW()
		WHERE id IN (?)`, value, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build seat update: %w", err)
	}
	query = r.db.Rebind(query)
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update seats: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
