package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// bookingTimeZone is the fixed zone all booking dates are recorded in,
// independent of server locale.
var bookingTimeZone = time.FixedZone("UTC+7", 7*60*60)

// priceTolerance bounds acceptable drift between the client-submitted
// breakdown total and the server-computed charge amount.
const priceTolerance = 0.01

// OrderService assembles orders: ticket resolution, seat reservation,
// price reconciliation and the gateway charge.
type OrderService struct {
	orderRepo   *database.OrderRepository
	paymentRepo *database.PaymentRepository
	seatRepo    *database.SeatRepository
	ticketRepo  *database.TicketRepository
	userRepo    *database.UserRepository
	gateway     *PaymentGatewayService
	logger      *logrus.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo *database.OrderRepository,
	paymentRepo *database.PaymentRepository,
	seatRepo *database.SeatRepository,
	ticketRepo *database.TicketRepository,
	userRepo *database.UserRepository,
	gateway *PaymentGatewayService,
	logger *logrus.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		seatRepo:    seatRepo,
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// CreateOrder books the requested tickets for the given user. The seat
// reservation, payment row, order row and passenger rows are written in
// one transaction so a lost seat race leaves nothing behind.
func (s *OrderService) CreateOrder(userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	outbound, err := s.resolveTicket(req.OutboundTicketID)
	if err != nil {
		return nil, err
	}

	var returnTicket *models.Ticket
	if req.ReturnTicketID != nil {
		returnTicket, err = s.resolveTicket(*req.ReturnTicketID)
		if err != nil {
			return nil, err
		}
	}

	legCount := len(outbound.Flights)
	if returnTicket != nil {
		legCount += len(returnTicket.Flights)
	}

	seatIDs, err := s.collectSeatIDs(req.Passengers, legCount)
	if err != nil {
		return nil, err
	}
	if err := s.validateSeatsBelongToTickets(seatIDs, outbound, returnTicket); err != nil {
		return nil, err
	}

	// Availability pre-flight: a seat that is already gone fails the
	// order before the gateway charge exists. The authoritative guard
	// is still the conditional update inside the transaction below.
	occupied, err := s.seatRepo.FindOccupied(seatIDs)
	if err != nil {
		return nil, err
	}
	if occupied != nil {
		return nil, &models.SeatConflictError{SeatIDs: []string{occupied.ID.String()}}
	}

	totalPrice, err := s.reconcilePrice(req, outbound, returnTicket)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user")
	}

	gatewayOrderID := s.gateway.NewGatewayOrderID()
	charge, err := s.gateway.Charge(&ChargeParams{
		GatewayOrderID: gatewayOrderID,
		GrossAmount:    totalPrice,
		CustomerName:   user.FullName,
		CustomerEmail:  user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to charge payment gateway: %w", err)
	}

	validUntil := time.Now().Add(time.Duration(s.gateway.config.ExpiryHours) * time.Hour)
	payment := &models.Payment{
		GatewayOrderID: gatewayOrderID,
		Token:          charge.Token,
		Amount:         totalPrice,
		ValidUntil:     &validUntil,
	}

	order := &models.Order{
		UserID:           userID,
		OutboundTicketID: outbound.ID,
		IsRoundTrip:      returnTicket != nil,
		BookingDate:      time.Now().In(bookingTimeZone),
		DetailPrice:      req.DetailPrice,
		TotalPrice:       totalPrice,
	}
	if returnTicket != nil {
		order.ReturnTicketID = &returnTicket.ID
	}

	tx, err := s.orderRepo.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.seatRepo.ReserveTx(tx, seatIDs); err != nil {
		s.voidCharge(gatewayOrderID)
		return nil, err
	}
	if err := s.paymentRepo.CreateTx(tx, payment); err != nil {
		s.voidCharge(gatewayOrderID)
		return nil, err
	}

	order.PaymentID = payment.ID
	if err := s.orderRepo.CreateTx(tx, order); err != nil {
		s.voidCharge(gatewayOrderID)
		return nil, err
	}

	for i := range req.Passengers {
		p := &req.Passengers[i]
		passenger := &models.Passenger{
			OrderID:          order.ID,
			Type:             p.Type,
			Title:            p.Title,
			Name:             p.Name,
			FamilyName:       p.FamilyName,
			DateOfBirth:      p.DateOfBirth,
			Nationality:      p.Nationality,
			IdentifierNumber: p.IdentifierNumber,
			IssuedCountry:    p.IssuedCountry,
			IDValidUntil:     p.IDValidUntil,
			SeatIDs:          p.SeatIDs,
		}
		if err := s.orderRepo.CreatePassengerTx(tx, passenger); err != nil {
			s.voidCharge(gatewayOrderID)
			return nil, err
		}
		order.Passengers = append(order.Passengers, *passenger)
	}

	if err := tx.Commit(); err != nil {
		s.voidCharge(gatewayOrderID)
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"user_id":       userID,
		"is_round_trip": order.IsRoundTrip,
		"total_price":   totalPrice,
		"passengers":    len(order.Passengers),
	}).Info("Order created")

	return order, nil
}

// GetOrder returns an order if it exists and belongs to the user.
// Other users' orders read as not found rather than forbidden.
func (s *OrderService) GetOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, models.NewNotFoundError("order")
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first
func (s *OrderService) ListOrders(userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.ListByUser(userID, limit, offset)
}

// CancelOrder voids an unpaid order: the gateway transaction is
// cancelled, the order moves to cancelled and its seats are released.
// The gateway's own cancel webhook then finds the transition already
// done and skips its side effects.
func (s *OrderService) CancelOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusUnpaid {
		return nil, models.NewValidationError("order can no longer be cancelled")
	}

	payment, err := s.paymentRepo.GetByID(order.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment != nil {
		if err := s.gateway.Cancel(payment.GatewayOrderID); err != nil {
			return nil, err
		}
	}

	tx, err := s.orderRepo.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	transitioned, err := s.orderRepo.TransitionStatusTx(tx, order.ID, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	if transitioned {
		released, err := s.seatRepo.ReleaseByOrderTx(tx, order.ID)
		if err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"order_id":       order.ID,
			"seats_released": released,
		}).Info("Order cancelled by user")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return s.GetOrder(userID, orderID)
}

func (s *OrderService) resolveTicket(id string) (*models.Ticket, error) {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.NewFieldValidationError("ticket_id", "invalid uuid")
	}
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, models.NewNotFoundError("ticket")
	}
	return ticket, nil
}

// collectSeatIDs flattens passenger seat selections, requiring exactly
// one seat per leg per passenger and no seat shared between passengers.
func (s *OrderService) collectSeatIDs(passengers []models.OrderPassengerRequest, legCount int) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for i, p := range passengers {
		if len(p.SeatIDs) != legCount {
			return nil, models.NewFieldValidationError(
				"passengers",
				fmt.Sprintf("passenger %d must select exactly %d seats", i+1, legCount))
		}
		for _, raw := range p.SeatIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, models.NewFieldValidationError("seat_ids", "invalid uuid")
			}
			if seen[id] {
				return nil, models.NewFieldValidationError("seat_ids", "the same seat was selected twice")
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// validateSeatsBelongToTickets checks every selected seat exists and
// sits on one of the flights the booked tickets cover.
func (s *OrderService) validateSeatsBelongToTickets(seatIDs []uuid.UUID, outbound, returnTicket *models.Ticket) error {
	flights := make(map[uuid.UUID]bool)
	for _, f := range outbound.Flights {
		flights[f.ID] = true
	}
	if returnTicket != nil {
		for _, f := range returnTicket.Flights {
			flights[f.ID] = true
		}
	}

	seats, err := s.seatRepo.GetByIDs(seatIDs)
	if err != nil {
		return err
	}
	if len(seats) != len(seatIDs) {
		return models.NewNotFoundError("seat")
	}
	for _, seat := range seats {
		if !flights[seat.FlightID] {
			return models.NewFieldValidationError("seat_ids", "seat does not belong to a booked flight")
		}
	}
	return nil
}

// reconcilePrice recomputes the charge amount from the tickets'
// discounted prices and rejects a breakdown that disagrees with it.
// The client's numbers are never charged directly.
func (s *OrderService) reconcilePrice(req *models.CreateOrderRequest, outbound, returnTicket *models.Ticket) (float64, error) {
	perPassenger := outbound.TotalDiscountedPrice
	if returnTicket != nil {
		perPassenger += returnTicket.TotalDiscountedPrice
	}
	expected := perPassenger * float64(len(req.Passengers))

	var submitted float64
	for _, item := range req.DetailPrice {
		submitted += item.TotalPrice
	}

	if math.Abs(expected-submitted) > priceTolerance {
		s.logger.WithFields(logrus.Fields{
			"expected":  expected,
			"submitted": submitted,
		}).Warn("Order price breakdown mismatch")
		return 0, models.NewFieldValidationError("detail_price", "submitted total does not match the ticket prices")
	}
	return expected, nil
}

// voidCharge best-effort cancels a gateway transaction whose local
// order never materialized.
func (s *OrderService) voidCharge(gatewayOrderID string) {
	if err := s.gateway.Cancel(gatewayOrderID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"gateway_order_id": gatewayOrderID,
			"error":            err.Error(),
		}).Error("Failed to void gateway charge after order failure")
	}
}
