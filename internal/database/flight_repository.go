package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// seatLetters lays seats out in rows of six, airline style
const seatLetters = "ABCDEF"

// FlightRepository handles flight database operations
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// flightColumns joins the owning route so lookups carry the leg's airports
const flightColumns = `
	f.id, f.code, f.route_id, f.airline_id, f.seat_class,
	f.departure_terminal_id, f.arrival_terminal_id,
	f.departure_time, f.arrival_time, f.duration_minutes,
	f.baggage_kg, f.cabin_baggage_kg, f.capacity, f.price,
	f.created_at, f.updated_at,
	r.departure_airport_id, r.arrival_airport_id`

// CreateWithSeats inserts a flight and its full seat set in one
// transaction. The seat count is fixed here and never changes afterwards.
func (r *FlightRepository) CreateWithSeats(flight *models.Flight) error {
	flight.ID = uuid.New()
	flight.CreatedAt = time.Now()
	flight.UpdatedAt = time.Now()
	flight.DurationMinutes = int(flight.ArrivalTime.Sub(flight.DepartureTime).Minutes())

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO flights (
			id, code, route_id, airline_id, seat_class,
			departure_terminal_id, arrival_terminal_id,
			departure_time, arrival_time, duration_minutes,
			baggage_kg, cabin_baggage_kg, capacity, price,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		flight.ID, flight.Code, flight.RouteID, flight.AirlineID, flight.SeatClass,
		flight.DepartureTerminalID, flight.ArrivalTerminalID,
		flight.DepartureTime, flight.ArrivalTime, flight.DurationMinutes,
		flight.BaggageKG, flight.CabinBaggageKG, flight.Capacity, flight.Price,
		flight.CreatedAt, flight.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}

	for i := 0; i < flight.Capacity; i++ {
		seatNumber := fmt.Sprintf("%d%c", i/len(seatLetters)+1, seatLetters[i%len(seatLetters)])
		_, err = tx.Exec(`
			INSERT INTO seats (id, flight_id, seat_number, is_occupied, created_at, updated_at)
			VALUES ($1, $2, $3, FALSE, NOW(), NOW())`,
			uuid.New(), flight.ID, seatNumber,
		)
		if err != nil {
			return fmt.Errorf("failed to create seat %s: %w", seatNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flight creation: %w", err)
	}
	return nil
}

// GetByID retrieves a flight with its route endpoints, nil if absent
func (r *FlightRepository) GetByID(id uuid.UUID) (*models.Flight, error) {
	var flight models.Flight
	query := fmt.Sprintf(`
		SELECT %s FROM flights f
		JOIN routes r ON r.id = f.route_id
		WHERE f.id = $1`, flightColumns)
	err := r.db.Get(&flight, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}
	return &flight, nil
}

// GetByIDs retrieves flights for a set of ids. The result order is not the
// input order; callers re-order as needed. Missing ids simply shrink the
// result set, which is how "some flights could not be found" is detected.
func (r *FlightRepository) GetByIDs(ids []uuid.UUID) ([]models.Flight, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`
		SELECT %s FROM flights f
		JOIN routes r ON r.id = f.route_id
		WHERE f.id IN (?)`, flightColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build flight lookup: %w", err)
	}

	query = r.db.Rebind(query)
	var flights []models.Flight
	if err := r.db.Select(&flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch flights: %w", err)
	}
	return flights, nil
}

// List returns flights, optionally filtered by route and departure day
func (r *FlightRepository) List(routeID *uuid.UUID, day *time.Time) ([]models.Flight, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM flights f
		JOIN routes r ON r.id = f.route_id
		WHERE 1=1`, flightColumns)
	args := []interface{}{}

	if routeID != nil {
		args = append(args, *routeID)
		query += fmt.Sprintf(" AND f.route_id = $%d", len(args))
	}
	if day != nil {
		args = append(args, day.Format("2006-01-02"))
		query += fmt.Sprintf(" AND DATE(f.departure_time) = $%d", len(args))
	}
	query += " ORDER BY f.departure_time"

	var flights []models.Flight
	if err := r.db.Select(&flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, nil
}

// Delete removes a flight and cascades to its seats
func (r *FlightRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("flight")
	}
	return nil
}
