package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// TerminalRepository handles terminal database operations
type TerminalRepository struct {
	db *sqlx.DB
}

// NewTerminalRepository creates a new TerminalRepository
func NewTerminalRepository(db *sqlx.DB) *TerminalRepository {
	return &TerminalRepository{db: db}
}

// Create inserts a new terminal
func (r *TerminalRepository) Create(terminal *models.Terminal) error {
	terminal.ID = uuid.New()
	terminal.CreatedAt = time.Now()
	terminal.UpdatedAt = time.Now()

	query := `
		INSERT INTO terminals (id, airport_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		terminal.ID, terminal.AirportID, terminal.Name, terminal.CreatedAt, terminal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	return nil
}

// GetByID retrieves a terminal by id, nil if absent
func (r *TerminalRepository) GetByID(id uuid.UUID) (*models.Terminal, error) {
	var terminal models.Terminal
	err := r.db.Get(&terminal, `SELECT * FROM terminals WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch terminal: %w", err)
	}
	return &terminal, nil
}

// ListByAirport returns all terminals of an airport
func (r *TerminalRepository) ListByAirport(airportID uuid.UUID) ([]models.Terminal, error) {
	var terminals []models.Terminal
	err := r.db.Select(&terminals, `SELECT * FROM terminals WHERE airport_id = $1 ORDER BY name`, airportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list terminals: %w", err)
	}
	return terminals, nil
}

// Update modifies a terminal's name
func (r *TerminalRepository) Update(terminal *models.Terminal) error {
	result, err := r.db.Exec(`UPDATE terminals SET name = $2, updated_at = NOW() WHERE id = $1`,
		terminal.ID, terminal.Name)
	if err != nil {
		return fmt.Errorf("failed to update terminal: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("terminal")
	}
	return nil
}

// Delete removes a terminal
func (r *TerminalRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM terminals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete terminal: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("terminal")
	}
	return nil
}
