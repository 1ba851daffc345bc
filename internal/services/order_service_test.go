package services

import (
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
)

func newOrderServiceWithMock(t *testing.T) (*OrderService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sdb := sqlx.NewDb(db, "sqlmock")
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	// no server key: the gateway issues placeholder tokens without HTTP
	gateway := NewPaymentGatewayService(&config.PaymentConfig{
		Environment: "sandbox",
		ExpiryHours: 24,
	}, logger)

	return NewOrderService(
		database.NewOrderRepository(sdb),
		database.NewPaymentRepository(sdb),
		database.NewSeatRepository(sdb),
		database.NewTicketRepository(sdb),
		database.NewUserRepository(sdb),
		gateway,
		logger,
	), mock
}

func ticketRows(ticket *models.Ticket) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "route_id", "discount_id", "seat_class",
		"total_price", "total_discounted_price", "total_duration_minutes",
		"departure_time", "arrival_time", "is_transits", "created_at", "updated_at",
	}).AddRow(
		ticket.ID, ticket.RouteID, ticket.DiscountID, ticket.SeatClass,
		ticket.TotalPrice, ticket.TotalDiscountedPrice, ticket.TotalDurationMinutes,
		ticket.DepartureTime, ticket.ArrivalTime, ticket.IsTransits,
		time.Now(), time.Now(),
	)
}

func seatRows(seats ...models.Seat) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "flight_id", "seat_number", "is_occupied", "created_at", "updated_at",
	})
	for _, s := range seats {
		rows.AddRow(s.ID, s.FlightID, s.SeatNumber, s.IsOccupied, time.Now(), time.Now())
	}
	return rows
}

func userRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "role", "created_at", "updated_at",
	}).AddRow(id, "traveler@example.com", "x", "Test Traveler", "user", time.Now(), time.Now())
}

func bookingFixture() (*models.Ticket, models.Flight, models.Seat) {
	leg := testLeg(jfkID, sinID, "2026-03-01T08:00:00Z", "2026-03-01T13:00:00Z", models.SeatClassEconomy, 1000)
	ticket := &models.Ticket{
		ID:                   uuid.New(),
		RouteID:              uuid.New(),
		SeatClass:            models.SeatClassEconomy,
		TotalPrice:           1000,
		TotalDiscountedPrice: 1000,
		DepartureTime:        leg.DepartureTime,
		ArrivalTime:          leg.ArrivalTime,
		Flights:              []models.Flight{leg},
	}
	seat := models.Seat{ID: uuid.New(), FlightID: leg.ID, SeatNumber: "1A"}
	return ticket, leg, seat
}

func passengerRequest(seatIDs ...string) models.OrderPassengerRequest {
	return models.OrderPassengerRequest{
		SeatIDs:          seatIDs,
		Type:             models.PassengerTypeAdult,
		Title:            "Mr",
		Name:             "Test Traveler",
		DateOfBirth:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Nationality:      "US",
		IdentifierNumber: "P1234567",
		IssuedCountry:    "US",
		IDValidUntil:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func expectTicketLookup(mock sqlmock.Sqlmock, ticket *models.Ticket) {
	mock.ExpectQuery("SELECT \\* FROM tickets WHERE id").
		WithArgs(ticket.ID).
		WillReturnRows(ticketRows(ticket))
	mock.ExpectQuery("SELECT f\\..*, r\\.departure_airport_id, r\\.arrival_airport_id").
		WithArgs(ticket.ID).
		WillReturnRows(flightRows(ticket.Flights...))
}

// expectAvailabilityCheck covers the pre-flight occupied-seat lookup
// that runs before the gateway charge.
func expectAvailabilityCheck(mock sqlmock.Sqlmock, occupied ...models.Seat) {
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN .* AND is_occupied = TRUE").
		WillReturnRows(seatRows(occupied...))
}

func TestCreateOrder_Success(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	ticket, _, seat := bookingFixture()
	userID := uuid.New()

	expectTicketLookup(mock, ticket)
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN").
		WillReturnRows(seatRows(seat))
	expectAvailabilityCheck(mock)
	mock.ExpectQuery("SELECT \\* FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(userRows(userID))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order, err := service.CreateOrder(userID, &models.CreateOrderRequest{
		OutboundTicketID: ticket.ID.String(),
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 1000},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(seat.ID.String()),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusUnpaid, order.Status)
	assert.False(t, order.IsRoundTrip)
	assert.Equal(t, 1000.0, order.TotalPrice)
	assert.Len(t, order.Passengers, 1)
	assert.NotEqual(t, uuid.Nil, order.PaymentID)
	assert.Equal(t, "UTC+7", order.BookingDate.Location().String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_SeatConflictRollsBack(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	ticket, _, seat := bookingFixture()
	userID := uuid.New()

	expectTicketLookup(mock, ticket)
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN").
		WillReturnRows(seatRows(seat))
	expectAvailabilityCheck(mock)
	mock.ExpectQuery("SELECT \\* FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(userRows(userID))

	mock.ExpectBegin()
	// another booking got the seat first: zero rows match the guard
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id FROM seats").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(seat.ID))
	mock.ExpectRollback()

	_, err := service.CreateOrder(userID, &models.CreateOrderRequest{
		OutboundTicketID: ticket.ID.String(),
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 1000},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(seat.ID.String()),
		},
	})
	require.Error(t, err)

	var conflict *models.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{seat.ID.String()}, conflict.SeatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_OccupiedSeatRejectedBeforeCharge(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	ticket, _, seat := bookingFixture()
	seat.IsOccupied = true

	expectTicketLookup(mock, ticket)
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN").
		WillReturnRows(seatRows(seat))
	expectAvailabilityCheck(mock, seat)

	// no user lookup, no charge, no transaction beyond this point
	_, err := service.CreateOrder(uuid.New(), &models.CreateOrderRequest{
		OutboundTicketID: ticket.ID.String(),
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 1000},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(seat.ID.String()),
		},
	})
	require.Error(t, err)

	var conflict *models.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{seat.ID.String()}, conflict.SeatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_PriceMismatchRejected(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	ticket, _, seat := bookingFixture()

	expectTicketLookup(mock, ticket)
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN").
		WillReturnRows(seatRows(seat))
	expectAvailabilityCheck(mock)

	_, err := service.CreateOrder(uuid.New(), &models.CreateOrderRequest{
		OutboundTicketID: ticket.ID.String(),
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 1},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(seat.ID.String()),
		},
	})
	require.Error(t, err)

	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "detail_price", validation.Field)
}

func TestCreateOrder_SeatCountMustMatchLegs(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	ticket, _, seat := bookingFixture()

	expectTicketLookup(mock, ticket)

	// one leg, two seats selected
	_, err := service.CreateOrder(uuid.New(), &models.CreateOrderRequest{
		OutboundTicketID: ticket.ID.String(),
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 1000},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(seat.ID.String(), uuid.New().String()),
		},
	})
	require.Error(t, err)

	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "passengers", validation.Field)
}

func TestCreateOrder_SeatOnWrongFlight(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	ticket, _, _ := bookingFixture()
	straySeat := models.Seat{ID: uuid.New(), FlightID: uuid.New(), SeatNumber: "2C"}

	expectTicketLookup(mock, ticket)
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN").
		WillReturnRows(seatRows(straySeat))

	_, err := service.CreateOrder(uuid.New(), &models.CreateOrderRequest{
		OutboundTicketID: ticket.ID.String(),
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 1000},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(straySeat.ID.String()),
		},
	})
	require.Error(t, err)

	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "seat_ids", validation.Field)
}

func TestCreateOrder_RoundTrip(t *testing.T) {
	service, mock := newOrderServiceWithMock(t)

	outbound, _, outSeat := bookingFixture()

	returnLeg := testLeg(sinID, jfkID, "2026-03-08T10:00:00Z", "2026-03-08T15:00:00Z", models.SeatClassEconomy, 1200)
	returnTicket := &models.Ticket{
		ID:                   uuid.New(),
		RouteID:              uuid.New(),
		SeatClass:            models.SeatClassEconomy,
		TotalPrice:           1200,
		TotalDiscountedPrice: 1200,
		DepartureTime:        returnLeg.DepartureTime,
		ArrivalTime:          returnLeg.ArrivalTime,
		Flights:              []models.Flight{returnLeg},
	}
	returnSeat := models.Seat{ID: uuid.New(), FlightID: returnLeg.ID, SeatNumber: "3D"}
	userID := uuid.New()

	expectTicketLookup(mock, outbound)
	expectTicketLookup(mock, returnTicket)
	mock.ExpectQuery("SELECT \\* FROM seats WHERE id IN").
		WillReturnRows(seatRows(outSeat, returnSeat))
	expectAvailabilityCheck(mock)
	mock.ExpectQuery("SELECT \\* FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(userRows(userID))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	returnID := returnTicket.ID.String()
	order, err := service.CreateOrder(userID, &models.CreateOrderRequest{
		OutboundTicketID: outbound.ID.String(),
		ReturnTicketID:   &returnID,
		DetailPrice: models.DetailPrice{
			{Type: "adult", Amount: 1, TotalPrice: 2200},
		},
		Passengers: []models.OrderPassengerRequest{
			passengerRequest(outSeat.ID.String(), returnSeat.ID.String()),
		},
	})
	require.NoError(t, err)

	assert.True(t, order.IsRoundTrip)
	require.NotNil(t, order.ReturnTicketID)
	assert.Equal(t, returnTicket.ID, *order.ReturnTicketID)
	assert.Equal(t, 2200.0, order.TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
