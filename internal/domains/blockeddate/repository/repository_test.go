package repository_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/infras/otel/mocks"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/blockeddate/model"
	"estatehub/internal/domains/blockeddate/repository"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared/failure"
)

func newRepository(t *testing.T) (repository.BlockedDate, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func expectLockedHall(mock sqlmock.Sqlmock, blocked bool) {
	mock.ExpectBegin()
	mock.ExpectPrepare(`SELECT .+ FROM facilities .+ FOR UPDATE`).ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "capacity", "status"}).
			AddRow("f-hall", "Main Hall", "event", 120, "available"))
	mock.ExpectPrepare(`SELECT EXISTS\(SELECT 1 FROM blocked_dates`).ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(blocked))
}

func TestBlockedDateRepository_BlockChecked(t *testing.T) {
	xmas := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	t.Run("inserts under the facility lock", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectLockedHall(mock, false)
		mock.ExpectExec(`INSERT INTO blocked_dates`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		blocked, err := repo.BlockChecked(context.Background(), "Main Hall", "2025-12-25",
			func(facility facilityModel.Facility, exist bool) (model.BlockedDate, error) {
				assert.Equal(t, "f-hall", facility.ID)
				assert.False(t, exist)

				return model.BlockedDate{ID: "bd-1", FacilityID: facility.ID, BlockedDate: xmas, Reason: "Closed"}, nil
			})

		require.NoError(t, err)
		assert.Equal(t, "bd-1", blocked.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate day rolls back", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectLockedHall(mock, true)
		mock.ExpectRollback()

		_, err := repo.BlockChecked(context.Background(), "Main Hall", "2025-12-25",
			func(facility facilityModel.Facility, exist bool) (model.BlockedDate, error) {
				assert.True(t, exist)

				return model.BlockedDate{}, failure.Conflict("facility Main Hall is already blocked on 2025-12-25")
			})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown facility skips the duplicate check", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectPrepare(`SELECT .+ FROM facilities .+ FOR UPDATE`).ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
		mock.ExpectRollback()

		_, err := repo.BlockChecked(context.Background(), "Nowhere", "2025-12-25",
			func(facility facilityModel.Facility, _ bool) (model.BlockedDate, error) {
				assert.False(t, facility.Exists())

				return model.BlockedDate{}, failure.NotFound("facility")
			})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
