package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// gatewayTimeLayout is the timestamp format the gateway uses in webhooks
const gatewayTimeLayout = "2006-01-02 15:04:05"

// PaymentService applies gateway webhooks to payments and orders.
// Deliveries are at-least-once; every side effect here is guarded by a
// conditional write so redeliveries are no-ops.
type PaymentService struct {
	paymentRepo *database.PaymentRepository
	orderRepo   *database.OrderRepository
	seatRepo    *database.SeatRepository
	gateway     *PaymentGatewayService
	notifier    *NotificationService
	logger      *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo *database.PaymentRepository,
	orderRepo *database.OrderRepository,
	seatRepo *database.SeatRepository,
	gateway *PaymentGatewayService,
	notifier *NotificationService,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		seatRepo:    seatRepo,
		gateway:     gateway,
		notifier:    notifier,
		logger:      logger,
	}
}

// HandleWebhook processes one gateway notification: signature check,
// payment update, the order status transition and - only when this
// delivery won the transition - the issue or release side effects.
func (s *PaymentService) HandleWebhook(notification *models.WebhookNotification) (*models.Order, error) {
	if !s.gateway.VerifySignature(
		notification.OrderID,
		notification.StatusCode,
		notification.GrossAmount,
		notification.SignatureKey,
	) {
		s.logger.WithField("gateway_order_id", notification.OrderID).
			Warn("Webhook rejected: invalid signature")
		return nil, models.NewValidationError("invalid webhook signature")
	}

	payment, err := s.paymentRepo.GetByGatewayOrderID(notification.OrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, models.NewNotFoundError("payment")
	}

	order, err := s.orderRepo.GetByPaymentID(payment.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, models.NewNotFoundError("order")
	}

	transactionStatus := models.TransactionStatus(notification.TransactionStatus)
	targetStatus, recognized := models.OrderStatusFor(transactionStatus)
	if !recognized {
		s.logger.WithFields(logrus.Fields{
			"order_id":           order.ID,
			"transaction_status": notification.TransactionStatus,
		}).Warn("Webhook carries unmapped transaction status, order flagged unknown")
	}

	var validUntil *time.Time
	if notification.ExpiryTime != "" {
		if parsed, perr := time.ParseInLocation(gatewayTimeLayout, notification.ExpiryTime, bookingTimeZone); perr == nil {
			validUntil = &parsed
		}
	}

	tx, err := s.orderRepo.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = s.paymentRepo.UpdateFromWebhookTx(
		tx, payment.ID,
		transactionStatus,
		notification.PaymentType,
		notification.FraudStatus,
		validUntil,
		rawPayloadOf(notification),
	)
	if err != nil {
		return nil, err
	}

	transitioned := false
	if targetStatus != models.OrderStatusUnpaid {
		transitioned, err = s.orderRepo.TransitionStatusTx(tx, order.ID, targetStatus)
		if err != nil {
			return nil, err
		}
		// Anything terminal that is not an issued ticket hands the
		// seats back, whether the gateway said expire, cancel or deny.
		// Unknown keeps its seats: the gateway said something this
		// code cannot classify, so an operator rules on the raw status
		// before inventory moves.
		if transitioned && targetStatus != models.OrderStatusIssued && targetStatus != models.OrderStatusUnknown {
			released, rerr := s.seatRepo.ReleaseByOrderTx(tx, order.ID)
			if rerr != nil {
				return nil, rerr
			}
			s.logger.WithFields(logrus.Fields{
				"order_id":       order.ID,
				"status":         targetStatus,
				"seats_released": released,
			}).Info("Order closed, seats released")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit webhook update: %w", err)
	}

	if transitioned && targetStatus == models.OrderStatusIssued {
		s.issueTicket(order)
	}
	if !transitioned && targetStatus != models.OrderStatusUnpaid {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"status":   targetStatus,
		}).Info("Duplicate webhook delivery, side effects skipped")
	}

	return s.orderRepo.GetByID(order.ID)
}

// issueTicket runs the post-payment side effects: the boarding artifact
// and the success notifications. Each is guarded in the database so a
// crash between them resumes cleanly on redelivery.
func (s *PaymentService) issueTicket(order *models.Order) {
	artifact := fmt.Sprintf("SKYTRIP:%s:%d", order.ID, time.Now().Unix())
	stored, err := s.orderRepo.SetQRCodeIfEmpty(order.ID, artifact)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		}).Error("Failed to store ticket artifact")
	} else if stored {
		s.logger.WithField("order_id", order.ID).Info("Ticket artifact generated")
	}

	notified, err := s.orderRepo.MarkNotified(order.ID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		}).Error("Failed to mark order notified")
		return
	}
	if notified {
		s.notifier.NotifyOrderIssued(order)
	}
}

// rawPayloadOf snapshots the notification for the payment's raw_payload
// column.
func rawPayloadOf(notification *models.WebhookNotification) models.RawPayload {
	data, err := json.Marshal(notification)
	if err != nil {
		return nil
	}
	var payload models.RawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return payload
}
