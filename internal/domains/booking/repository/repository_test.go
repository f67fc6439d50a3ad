package repository_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/infras/otel/mocks"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/booking/availability"
	"estatehub/internal/domains/booking/model"
	"estatehub/internal/domains/booking/repository"
	"estatehub/shared/failure"
)

var nov1 = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func expectLockedDay(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectPrepare(`SELECT .+ FROM facilities .+ FOR UPDATE`).ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "capacity", "status"}).
			AddRow("f-tennis", "Tennis Court", "sport", 4, "available"))
	mock.ExpectPrepare(`SELECT .+ FROM blocked_dates`).ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectPrepare(`SELECT .+ FROM bookings`).ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "facility_name", "booking_date", "start_minute", "end_minute", "status"}).
			AddRow("b-existing", "Tennis Court", nov1, 600, 660, "approved"))
}

func TestBookingRepository_CreateChecked(t *testing.T) {
	criteria := repository.Criteria{FacilityName: "Tennis Court", Date: nov1}

	t.Run("decide sees the locked day and the booking is inserted", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectLockedDay(mock)
		mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		booking, err := repo.CreateChecked(context.Background(), criteria, func(snap availability.Snapshot) (model.Booking, error) {
			assert.Equal(t, "f-tennis", snap.Facility.ID)
			assert.Empty(t, snap.Blocks)
			require.Len(t, snap.Bookings, 1)
			assert.Equal(t, 600, snap.Bookings[0].StartMinute)

			return model.Booking{ID: "b-new", FacilityName: "Tennis Court", BookingDate: nov1, StartMinute: 660, EndMinute: 720}, nil
		})

		require.NoError(t, err)
		assert.Equal(t, "b-new", booking.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decide error rolls back without inserting", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectLockedDay(mock)
		mock.ExpectRollback()

		_, err := repo.CreateChecked(context.Background(), criteria, func(availability.Snapshot) (model.Booking, error) {
			return model.Booking{}, failure.Conflict("facility Tennis Court is already booked between 10:00 and 11:00")
		})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown facility skips the day lookup", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(`SELECT .+ FROM facilities .+ FOR UPDATE`).ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
		mock.ExpectRollback()

		_, err := repo.CreateChecked(context.Background(), criteria, func(snap availability.Snapshot) (model.Booking, error) {
			assert.False(t, snap.Facility.Exists())

			return model.Booking{}, failure.NotFound("facility")
		})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure never reaches decide", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(`SELECT .+ FROM facilities .+ FOR UPDATE`).ExpectQuery().
			WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		_, err := repo.CreateChecked(context.Background(), criteria, func(availability.Snapshot) (model.Booking, error) {
			t.Fatal("decide must not run without the lock")

			return model.Booking{}, nil
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
