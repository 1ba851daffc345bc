package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// TicketRepository handles ticket database operations
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreateWithFlights persists a ticket and its ordered leg links in one
// transaction. Position preserves the validated itinerary order.
func (r *TicketRepository) CreateWithFlights(ticket *models.Ticket, flightIDs []uuid.UUID) error {
	ticket.ID = uuid.New()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tickets (
			id, route_id, discount_id, seat_class,
			total_price, total_discounted_price, total_duration_minutes,
			departure_time, arrival_time, is_transits,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ticket.ID, ticket.RouteID, ticket.DiscountID, ticket.SeatClass,
		ticket.TotalPrice, ticket.TotalDiscountedPrice, ticket.TotalDurationMinutes,
		ticket.DepartureTime, ticket.ArrivalTime, ticket.IsTransits,
		ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	for position, flightID := range flightIDs {
		_, err = tx.Exec(`
			INSERT INTO ticket_flights (ticket_id, flight_id, position)
			VALUES ($1, $2, $3)`,
			ticket.ID, flightID, position,
		)
		if err != nil {
			return fmt.Errorf("failed to link flight %s: %w", flightID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket creation: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket with its legs in itinerary order, nil if absent
func (r *TicketRepository) GetByID(id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.Get(&ticket, `SELECT * FROM tickets WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM ticket_flights tf
		JOIN flights f ON f.id = tf.flight_id
		JOIN routes r ON r.id = f.route_id
		WHERE tf.ticket_id = $1
		ORDER BY tf.position`, flightColumns)
	if err := r.db.Select(&ticket.Flights, query, id); err != nil {
		return nil, fmt.Errorf("failed to fetch ticket flights: %w", err)
	}

	return &ticket, nil
}
