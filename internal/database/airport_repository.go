package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// AirportRepository handles airport database operations
type AirportRepository struct {
	db *sqlx.DB
}

// NewAirportRepository creates a new AirportRepository
func NewAirportRepository(db *sqlx.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// Create inserts a new airport
func (r *AirportRepository) Create(airport *models.Airport) error {
	airport.ID = uuid.New()
	airport.CreatedAt = time.Now()
	airport.UpdatedAt = time.Now()

	query := `
		INSERT INTO airports (id, city_id, name, iata_code, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		airport.ID, airport.CityID, airport.Name, airport.IataCode,
		airport.Latitude, airport.Longitude, airport.CreatedAt, airport.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create airport: %w", err)
	}
	return nil
}

// GetByID retrieves an airport by id, nil if absent
func (r *AirportRepository) GetByID(id uuid.UUID) (*models.Airport, error) {
	var airport models.Airport
	err := r.db.Get(&airport, `SELECT * FROM airports WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airport: %w", err)
	}
	return &airport, nil
}

// List returns all airports, optionally filtered by city
func (r *AirportRepository) List(cityID *uuid.UUID) ([]models.Airport, error) {
	var airports []models.Airport
	var err error
	if cityID != nil {
		err = r.db.Select(&airports, `SELECT * FROM airports WHERE city_id = $1 ORDER BY iata_code`, *cityID)
	} else {
		err = r.db.Select(&airports, `SELECT * FROM airports ORDER BY iata_code`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}
	return airports, nil
}

// Update modifies an airport's mutable fields
func (r *AirportRepository) Update(airport *models.Airport) error {
	query := `
		UPDATE airports
		SET city_id = $2, name = $3, iata_code = $4, latitude = $5, longitude = $6, updated_at = NOW()
		WHERE id = $1`
	result, err := r.db.Exec(query,
		airport.ID, airport.CityID, airport.Name, airport.IataCode,
		airport.Latitude, airport.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to update airport: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("airport")
	}
	return nil
}

// Delete removes an airport
func (r *AirportRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM airports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete airport: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("airport")
	}
	return nil
}
