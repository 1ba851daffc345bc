package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// DiscountRepository handles discount database operations
type DiscountRepository struct {
	db *sqlx.DB
}

// NewDiscountRepository creates a new DiscountRepository
func NewDiscountRepository(db *sqlx.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// Create inserts a new discount
func (r *DiscountRepository) Create(discount *models.Discount) error {
	discount.ID = uuid.New()
	discount.CreatedAt = time.Now()
	discount.UpdatedAt = time.Now()

	query := `
		INSERT INTO discounts (id, code, percentage, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		discount.ID, discount.Code, discount.Percentage, discount.Description,
		discount.CreatedAt, discount.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return nil
}

// GetByID retrieves a discount by id, nil if absent
func (r *DiscountRepository) GetByID(id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.Get(&discount, `SELECT * FROM discounts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discount: %w", err)
	}
	return &discount, nil
}

// List returns all discounts
func (r *DiscountRepository) List() ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.Select(&discounts, `SELECT * FROM discounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

// Update modifies a discount
func (r *DiscountRepository) Update(discount *models.Discount) error {
	query := `
		UPDATE discounts
		SET code = $2, percentage = $3, description = $4, updated_at = NOW()
		WHERE id = $1`
	result, err := r.db.Exec(query, discount.ID, discount.Code, discount.Percentage, discount.Description)
	if err != nil {
		return fmt.Errorf("failed to update discount: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("discount")
	}
	return nil
}

// Delete removes a discount
func (r *DiscountRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("discount")
	}
	return nil
}
