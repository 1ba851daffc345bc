package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// RouteRepository handles route database operations
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route with its precomputed distance
func (r *RouteRepository) Create(route *models.Route) error {
	route.ID = uuid.New()
	route.CreatedAt = time.Now()
	route.UpdatedAt = time.Now()

	query := `
		INSERT INTO routes (id, departure_airport_id, arrival_airport_id, distance_km, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		route.ID, route.DepartureAirportID, route.ArrivalAirportID,
		route.DistanceKM, route.CreatedAt, route.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

// GetByID retrieves a route by id, nil if absent
func (r *RouteRepository) GetByID(id uuid.UUID) (*models.Route, error) {
	var route models.Route
	err := r.db.Get(&route, `SELECT * FROM routes WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}
	return &route, nil
}

// List returns all routes
func (r *RouteRepository) List() ([]models.Route, error) {
	var routes []models.Route
	err := r.db.Select(&routes, `SELECT * FROM routes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// Update rewrites a route's endpoints and recomputed distance
func (r *RouteRepository) Update(route *models.Route) error {
	query := `
		UPDATE routes
		SET departure_airport_id = $2, arrival_airport_id = $3, distance_km = $4, updated_at = NOW()
		WHERE id = $1`
	result, err := r.db.Exec(query,
		route.ID, route.DepartureAirportID, route.ArrivalAirportID, route.DistanceKM,
	)
	if err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("route")
	}
	return nil
}

// Delete removes a route
func (r *RouteRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("route")
	}
	return nil
}
