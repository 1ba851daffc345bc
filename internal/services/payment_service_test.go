package services

import (
	"crypto/sha512"
	"database/sql"
	"encoding/hex"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrip/flight-booking-backend/internal/config"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
	"github.com/skytrip/flight-booking-backend/pkg/notify"
)

const testServerKey = "SB-server-key"

func signedNotification(gatewayOrderID, statusCode, grossAmount, transactionStatus string) *models.WebhookNotification {
	sum := sha512.Sum512([]byte(gatewayOrderID + statusCode + grossAmount + testServerKey))
	return &models.WebhookNotification{
		OrderID:           gatewayOrderID,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      hex.EncodeToString(sum[:]),
		TransactionStatus: transactionStatus,
		PaymentType:       "bank_transfer",
	}
}

func newPaymentServiceWithMock(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sdb := sqlx.NewDb(db, "sqlmock")
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	gateway := NewPaymentGatewayService(&config.PaymentConfig{
		Environment: "sandbox",
		ServerKey:   testServerKey,
		ExpiryHours: 24,
	}, logger)

	userRepo := database.NewUserRepository(sdb)
	notificationRepo := database.NewNotificationRepository(sdb)
	email := notify.NewEmailGateway(notify.Config{Mode: "dev"}, logger)
	push := notify.NewPushGateway(notify.Config{Mode: "dev"}, logger)
	notifier := NewNotificationService(notificationRepo, userRepo, email, push, logger)

	return NewPaymentService(
		database.NewPaymentRepository(sdb),
		database.NewOrderRepository(sdb),
		database.NewSeatRepository(sdb),
		gateway,
		notifier,
		logger,
	), mock
}

func paymentRows(paymentID uuid.UUID, gatewayOrderID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gateway_order_id", "token", "amount", "method", "status",
		"fraud_status", "valid_until", "payment_date", "raw_payload",
		"created_at", "updated_at",
	}).AddRow(
		paymentID, gatewayOrderID, "tok", 1000.0, nil, nil,
		nil, nil, nil, nil, time.Now(), time.Now(),
	)
}

func orderRows(orderID, userID, paymentID uuid.UUID, status models.OrderStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "outbound_ticket_id", "return_ticket_id", "is_round_trip",
		"payment_id", "status", "booking_date", "detail_price", "total_price",
		"qr_code_data", "notified_at", "created_at", "updated_at",
	}).AddRow(
		orderID, userID, uuid.New(), nil, false,
		paymentID, status, time.Now(), []byte(`[]`), 1000.0,
		nil, nil, time.Now(), time.Now(),
	)
}

func emptyPassengerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "type", "title", "name", "family_name",
		"date_of_birth", "nationality", "identifier_number", "issued_country",
		"id_valid_until", "seat_ids", "created_at",
	})
}

// expectOrderByPayment covers OrderRepository.GetByPaymentID, which
// resolves the id and then loads the order with passengers.
func expectOrderByPayment(mock sqlmock.Sqlmock, orderID, userID, paymentID uuid.UUID, status models.OrderStatus) {
	mock.ExpectQuery("SELECT id FROM orders WHERE payment_id").
		WithArgs(paymentID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
	mock.ExpectQuery("SELECT \\* FROM orders WHERE id").
		WithArgs(orderID).
		WillReturnRows(orderRows(orderID, userID, paymentID, status))
	mock.ExpectQuery("SELECT \\* FROM passengers WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(emptyPassengerRows())
}

func TestVerifySignature(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	gateway := NewPaymentGatewayService(&config.PaymentConfig{ServerKey: testServerKey}, logger)

	n := signedNotification("ORDER-1", "200", "1000.00", "settlement")
	assert.True(t, gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey))

	// any tampered field invalidates the signature
	assert.False(t, gateway.VerifySignature(n.OrderID, n.StatusCode, "9999.00", n.SignatureKey))
	assert.False(t, gateway.VerifySignature("ORDER-2", n.StatusCode, n.GrossAmount, n.SignatureKey))
	assert.False(t, gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, "deadbeef"))
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	n := signedNotification("ORDER-1", "200", "1000.00", "settlement")
	n.SignatureKey = "tampered"

	_, err := service.HandleWebhook(n)
	require.Error(t, err)

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhook_UnknownPayment(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	mock.ExpectQuery("SELECT \\* FROM payments WHERE gateway_order_id").
		WithArgs("ORDER-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := service.HandleWebhook(signedNotification("ORDER-missing", "404", "0.00", "settlement"))
	require.Error(t, err)

	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhook_SettlementIssuesTicket(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	paymentID := uuid.New()
	orderID := uuid.New()
	userID := uuid.New()
	n := signedNotification("ORDER-abc", "200", "1000.00", "settlement")

	mock.ExpectQuery("SELECT \\* FROM payments WHERE gateway_order_id").
		WithArgs(n.OrderID).
		WillReturnRows(paymentRows(paymentID, n.OrderID))
	expectOrderByPayment(mock, orderID, userID, paymentID, models.OrderStatusUnpaid)

	mock.ExpectBegin()
	// the settled variant writes payment_date through its COALESCE guard
	mock.ExpectExec("UPDATE payments SET .*payment_date = COALESCE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// side effects run only because this delivery won the transition
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1)) // qr_code_data IS NULL guard
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1)) // notified_at IS NULL guard
	mock.ExpectQuery("SELECT \\* FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(userRows(userID))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	// final re-read of the order
	mock.ExpectQuery("SELECT \\* FROM orders WHERE id").
		WithArgs(orderID).
		WillReturnRows(orderRows(orderID, userID, paymentID, models.OrderStatusIssued))
	mock.ExpectQuery("SELECT \\* FROM passengers WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(emptyPassengerRows())

	order, err := service.HandleWebhook(n)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusIssued, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhook_DuplicateDeliverySkipsSideEffects(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	paymentID := uuid.New()
	orderID := uuid.New()
	userID := uuid.New()
	n := signedNotification("ORDER-abc", "200", "1000.00", "settlement")

	mock.ExpectQuery("SELECT \\* FROM payments WHERE gateway_order_id").
		WithArgs(n.OrderID).
		WillReturnRows(paymentRows(paymentID, n.OrderID))
	expectOrderByPayment(mock, orderID, userID, paymentID, models.OrderStatusIssued)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET .*payment_date = COALESCE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// status guard: the order already left 'unpaid', zero rows match
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM orders WHERE id").
		WithArgs(orderID).
		WillReturnRows(orderRows(orderID, userID, paymentID, models.OrderStatusIssued))
	mock.ExpectQuery("SELECT \\* FROM passengers WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(emptyPassengerRows())

	order, err := service.HandleWebhook(n)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusIssued, order.Status)
	// no qr, notification or email statements were expected or run
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhook_ExpireReleasesSeats(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	paymentID := uuid.New()
	orderID := uuid.New()
	userID := uuid.New()
	n := signedNotification("ORDER-abc", "407", "1000.00", "expire")

	mock.ExpectQuery("SELECT \\* FROM payments WHERE gateway_order_id").
		WithArgs(n.OrderID).
		WillReturnRows(paymentRows(paymentID, n.OrderID))
	expectOrderByPayment(mock, orderID, userID, paymentID, models.OrderStatusUnpaid)

	mock.ExpectBegin()
	// not settled, so no payment_date clause in the update
	mock.ExpectExec("UPDATE payments SET .*updated_at = NOW\\(\\) WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM orders WHERE id").
		WithArgs(orderID).
		WillReturnRows(orderRows(orderID, userID, paymentID, models.OrderStatusExpired))
	mock.ExpectQuery("SELECT \\* FROM passengers WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(emptyPassengerRows())

	order, err := service.HandleWebhook(n)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExpired, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhook_UnrecognizedStatusKeepsSeats(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	paymentID := uuid.New()
	orderID := uuid.New()
	userID := uuid.New()
	n := signedNotification("ORDER-abc", "200", "1000.00", "refund")

	mock.ExpectQuery("SELECT \\* FROM payments WHERE gateway_order_id").
		WithArgs(n.OrderID).
		WillReturnRows(paymentRows(paymentID, n.OrderID))
	expectOrderByPayment(mock, orderID, userID, paymentID, models.OrderStatusUnpaid)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET .*updated_at = NOW\\(\\) WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// the order is parked in unknown for an operator, seats stay held:
	// no seat statement is expected inside the transaction
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM orders WHERE id").
		WithArgs(orderID).
		WillReturnRows(orderRows(orderID, userID, paymentID, models.OrderStatusUnknown))
	mock.ExpectQuery("SELECT \\* FROM passengers WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(emptyPassengerRows())

	order, err := service.HandleWebhook(n)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusUnknown, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhook_PendingLeavesOrderUnpaid(t *testing.T) {
	service, mock := newPaymentServiceWithMock(t)

	paymentID := uuid.New()
	orderID := uuid.New()
	userID := uuid.New()
	n := signedNotification("ORDER-abc", "201", "1000.00", "pending")

	mock.ExpectQuery("SELECT \\* FROM payments WHERE gateway_order_id").
		WithArgs(n.OrderID).
		WillReturnRows(paymentRows(paymentID, n.OrderID))
	expectOrderByPayment(mock, orderID, userID, paymentID, models.OrderStatusUnpaid)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET .*updated_at = NOW\\(\\) WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// no order transition for pending
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM orders WHERE id").
		WithArgs(orderID).
		WillReturnRows(orderRows(orderID, userID, paymentID, models.OrderStatusUnpaid))
	mock.ExpectQuery("SELECT \\* FROM passengers WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(emptyPassengerRows())

	order, err := service.HandleWebhook(n)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusUnpaid, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
