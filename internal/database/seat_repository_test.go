package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrip/flight-booking-backend/internal/models"
)

func newSeatRepoWithMock(t *testing.T) (*SeatRepository, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sdb := sqlx.NewDb(db, "sqlmock")
	return NewSeatRepository(sdb), sdb, mock
}

func TestReserveTx_AllSeatsFree(t *testing.T) {
	repo, sdb, mock := newSeatRepoWithMock(t)

	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := sdb.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.ReserveTx(tx, ids))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTx_ConflictNamesTakenSeats(t *testing.T) {
	repo, sdb, mock := newSeatRepoWithMock(t)

	free := uuid.New()
	taken := uuid.New()

	mock.ExpectBegin()
	// the guard matched only the free seat
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM seats").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(taken))
	mock.ExpectRollback()

	tx, err := sdb.Beginx()
	require.NoError(t, err)

	err = repo.ReserveTx(tx, []uuid.UUID{free, taken})
	require.Error(t, err)
	require.NoError(t, tx.Rollback())

	var conflict *models.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{taken.String()}, conflict.SeatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTx_NoSeatsIsNoOp(t *testing.T) {
	repo, sdb, mock := newSeatRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := sdb.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.ReserveTx(tx, nil))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseByOrderTx(t *testing.T) {
	repo, sdb, mock := newSeatRepoWithMock(t)

	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats").
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := sdb.Beginx()
	require.NoError(t, err)

	released, err := repo.ReleaseByOrderTx(tx, orderID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 3, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseByOrderTx_AlreadyReleased(t *testing.T) {
	repo, sdb, mock := newSeatRepoWithMock(t)

	orderID := uuid.New()

	mock.ExpectBegin()
	// the is_occupied guard makes a second release match nothing
	mock.ExpectExec("UPDATE seats").
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := sdb.Beginx()
	require.NoError(t, err)

	released, err := repo.ReleaseByOrderTx(tx, orderID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 0, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}
