package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// CityRepository handles city database operations
type CityRepository struct {
	db *sqlx.DB
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(db *sqlx.DB) *CityRepository {
	return &CityRepository{db: db}
}

// Create inserts a new city
func (r *CityRepository) Create(city *models.City) error {
	city.ID = uuid.New()
	city.CreatedAt = time.Now()
	city.UpdatedAt = time.Now()

	query := `
		INSERT INTO cities (id, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, city.ID, city.Name, city.Code, city.CreatedAt, city.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create city: %w", err)
	}
	return nil
}

// GetByID retrieves a city by id, nil if absent
func (r *CityRepository) GetByID(id uuid.UUID) (*models.City, error) {
	var city models.City
	err := r.db.Get(&city, `SELECT * FROM cities WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch city: %w", err)
	}
	return &city, nil
}

// List returns all cities ordered by name
func (r *CityRepository) List() ([]models.City, error) {
	var cities []models.City
	err := r.db.Select(&cities, `SELECT * FROM cities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

// Update modifies a city's name and code
func (r *CityRepository) Update(city *models.City) error {
	query := `UPDATE cities SET name = $2, code = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(query, city.ID, city.Name, city.Code)
	if err != nil {
		return fmt.Errorf("failed to update city: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("city")
	}
	return nil
}

// Delete removes a city
func (r *CityRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("city")
	}
	return nil
}
