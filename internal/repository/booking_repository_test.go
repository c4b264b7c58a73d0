package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadready/roadready-api/internal/model"
)

func TestBookingRepoCreateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepo(db)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	b := &model.Booking{
		UserID:      4,
		VehicleID:   9,
		StatusID:    1,
		BookingDate: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		StartDate:   start,
		EndDate:     end,
		TotalCost:   3600,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings (user_id, vehicle_id, status_id, booking_date, start_date, end_date, total_cost)")).
		WithArgs(b.UserID, b.VehicleID, b.StatusID, b.BookingDate, b.StartDate, b.EndDate, b.TotalCost).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreateTx(context.Background(), tx, b))
	assert.Equal(t, uint64(42), b.ID)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoAddExtrasBulkTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepo(db)

	t.Run("builds one multi-row insert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_extras (booking_id, extra_id) VALUES (?,?),(?,?)")).
			WithArgs(uint64(42), uint64(1), uint64(42), uint64(3)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		require.NoError(t, repo.AddExtrasBulkTx(context.Background(), tx, 42, []uint64{1, 3}))
		require.NoError(t, tx.Commit())
	})

	t.Run("no extras means no statement", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		require.NoError(t, repo.AddExtrasBulkTx(context.Background(), tx, 42, nil))
		require.NoError(t, tx.Commit())
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoOverlapExistsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepo(db)

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	for _, tc := range []struct {
		name   string
		exists bool
	}{
		{"overlap found", true},
		{"no overlap", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("s.name NOT LIKE 'Cancelled%'")).
				WithArgs(uint64(9), start, end).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))
			mock.ExpectCommit()

			tx, err := db.Begin()
			require.NoError(t, err)
			got, err := repo.OverlapExistsTx(context.Background(), tx, 9, start, end)
			require.NoError(t, err)
			assert.Equal(t, tc.exists, got)
			require.NoError(t, tx.Commit())
		})
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoGetWithStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepo(db)

	cols := []string{"id", "user_id", "vehicle_id", "status_id", "booking_date",
		"start_date", "end_date", "total_cost", "name"}

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("JOIN booking_statuses s ON s.id = b.status_id")).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(42, 4, 9, 2, now, now, now.Add(48*time.Hour), 3600.0, "Confirmed"))

		b, status, err := repo.GetWithStatus(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), b.ID)
		assert.Equal(t, uint64(4), b.UserID)
		assert.Equal(t, model.StatusConfirmed, status)
	})

	t.Run("missing row maps to sentinel", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("JOIN booking_statuses s ON s.id = b.status_id")).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows(cols))

		_, _, err := repo.GetWithStatus(context.Background(), 99)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoGrossRevenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("s.name IN ('Completed','Cancelled - No Refund')")).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(12500.50))

	sum, err := repo.GrossRevenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12500.50, sum)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepoMostPopularCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY v.id, v.name")).
		WithArgs("Completed", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cnt"}).
			AddRow(9, "Corolla Altis", 7).
			AddRow(3, "City ZX", 4))

	top, err := repo.MostPopularCompleted(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, PopularVehicle{VehicleID: 9, VehicleName: "Corolla Altis", BookingCount: 7}, top[0])
	assert.Equal(t, PopularVehicle{VehicleID: 3, VehicleName: "City ZX", BookingCount: 4}, top[1])
	require.NoError(t, mock.ExpectationsWereMet())
}
