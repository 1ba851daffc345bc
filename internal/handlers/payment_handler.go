package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skytrip/flight-booking-backend/internal/models"
	"github.com/skytrip/flight-booking-backend/internal/services"
)

// PaymentHandler handles payment gateway callbacks
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Webhook handles POST /api/v1/payments/webhook. The gateway retries
// until it sees 200, so every non-2xx here means redelivery.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var notification models.WebhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.paymentService.HandleWebhook(&notification)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": order.ID,
		"status":   order.Status,
	})
}
