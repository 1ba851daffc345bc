package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// AirlineRepository handles airline database operations
type AirlineRepository struct {
	db *sqlx.DB
}

// NewAirlineRepository creates a new AirlineRepository
func NewAirlineRepository(db *sqlx.DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// Create inserts a new airline
func (r *AirlineRepository) Create(airline *models.Airline) error {
	airline.ID = uuid.New()
	airline.CreatedAt = time.Now()
	airline.UpdatedAt = time.Now()

	query := `
		INSERT INTO airlines (id, name, code, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		airline.ID, airline.Name, airline.Code, airline.LogoURL,
		airline.CreatedAt, airline.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create airline: %w", err)
	}
	return nil
}

// GetByID retrieves an airline by id, nil if absent
func (r *AirlineRepository) GetByID(id uuid.UUID) (*models.Airline, error) {
	var airline models.Airline
	err := r.db.Get(&airline, `SELECT * FROM airlines WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airline: %w", err)
	}
	return &airline, nil
}

// List returns all airlines ordered by name
func (r *AirlineRepository) List() ([]models.Airline, error) {
	var airlines []models.Airline
	err := r.db.Select(&airlines, `SELECT * FROM airlines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list airlines: %w", err)
	}
	return airlines, nil
}

// Update modifies an airline
func (r *AirlineRepository) Update(airline *models.Airline) error {
	query := `UPDATE airlines SET name = $2, code = $3, logo_url = $4, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(query, airline.ID, airline.Name, airline.Code, airline.LogoURL)
	if err != nil {
		return fmt.Errorf("failed to update airline: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("airline")
	}
	return nil
}

// Delete removes an airline
func (r *AirlineRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM airlines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete airline: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("airline")
	}
	return nil
}
