package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// DiscountHandler handles discount reference data requests
type DiscountHandler struct {
	discountRepo *database.DiscountRepository
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountRepo *database.DiscountRepository) *DiscountHandler {
	return &DiscountHandler{discountRepo: discountRepo}
}

// Create handles POST /api/v1/discounts
func (h *DiscountHandler) Create(c *gin.Context) {
	var req models.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	discount := &models.Discount{
		Code:        req.Code,
		Percentage:  req.Percentage,
		Description: req.Description,
	}
	if err := h.discountRepo.Create(discount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, discount)
}

// List handles GET /api/v1/discounts
func (h *DiscountHandler) List(c *gin.Context) {
	discounts, err := h.discountRepo.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": discounts})
}

// Get handles GET /api/v1/discounts/:id
func (h *DiscountHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	discount, err := h.discountRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if discount == nil {
		respondError(c, models.NewNotFoundError("discount"))
		return
	}
	c.JSON(http.StatusOK, discount)
}

// Update handles PUT /api/v1/discounts/:id
func (h *DiscountHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	discount := &models.Discount{
		ID:          id,
		Code:        req.Code,
		Percentage:  req.Percentage,
		Description: req.Description,
	}
	if err := h.discountRepo.Update(discount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, discount)
}

// Delete handles DELETE /api/v1/discounts/:id
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.discountRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
