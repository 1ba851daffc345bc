package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
	"github.com/skytrip/flight-booking-backend/pkg/notify"
	"golang.org/x/sync/errgroup"
)

// NotificationService fans out booking notifications across channels
// and serves the in-app notification feed.
type NotificationService struct {
	notificationRepo *database.NotificationRepository
	userRepo         *database.UserRepository
	email            *notify.EmailGateway
	push             *notify.PushGateway
	logger           *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo *database.NotificationRepository,
	userRepo *database.UserRepository,
	email *notify.EmailGateway,
	push *notify.PushGateway,
	logger *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		email:            email,
		push:             push,
		logger:           logger,
	}
}

// NotifyOrderIssued sends the ticket-issued email, push message and
// in-app notification concurrently. Channel failures are logged and
// swallowed; a lost email never rolls back an issued ticket.
func (s *NotificationService) NotifyOrderIssued(order *models.Order) {
	user, err := s.userRepo.GetUserByID(order.UserID)
	if err != nil || user == nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"user_id":  order.UserID,
		}).Error("Failed to load user for issued-order notification")
		return
	}

	title := "Your ticket has been issued"
	body := fmt.Sprintf(
		"Hi %s, your payment was received and the ticket for order %s has been issued. Have a safe flight!",
		user.FullName, order.ID)

	var g errgroup.Group
	g.Go(func() error {
		return s.email.Send(user.Email, title, body)
	})
	g.Go(func() error {
		return s.push.Send(user.ID.String(), title, body)
	})
	g.Go(func() error {
		return s.notificationRepo.Create(&models.Notification{
			UserID: user.ID,
			Title:  title,
			Body:   body,
		})
	})
	if err := g.Wait(); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		}).Error("Issued-order notification partially failed")
	}
}

// ListNotifications returns a page of the user's in-app notifications
func (s *NotificationService) ListNotifications(userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByUser(userID, limit, offset)
}

// MarkNotificationRead flags one of the user's notifications as read
func (s *NotificationService) MarkNotificationRead(id, userID uuid.UUID) error {
	return s.notificationRepo.MarkRead(id, userID)
}
