package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/services"
)

func newTicketRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	ticketService := services.NewTicketService(
		database.NewRouteRepository(db),
		database.NewFlightRepository(db),
		database.NewDiscountRepository(db),
		database.NewTicketRepository(db),
		logger,
	)

	router := gin.New()
	handler := NewTicketHandler(ticketService)
	router.POST("/tickets", handler.Create)
	router.GET("/tickets/:id", handler.Get)
	return router
}

func postTicket(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/tickets", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateTicket_MissingFlightIDs(t *testing.T) {
	router := newTicketRouter(t)

	recorder := postTicket(t, router, `{"route_id": "a3bb189e-8bf9-3888-9912-ace4e6543002"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateTicket_MalformedUUID(t *testing.T) {
	router := newTicketRouter(t)

	recorder := postTicket(t, router, `{"route_id": "not-a-uuid", "flight_ids": ["also-not"]}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetTicket_BadIDParam(t *testing.T) {
	router := newTicketRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tickets/not-a-uuid", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
