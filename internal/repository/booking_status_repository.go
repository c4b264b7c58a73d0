package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roadready/roadready-api/internal/model"
)

// ErrStatusNotFound is returned when a booking status name has no row in the
// booking_statuses lookup table. With the typed status set this indicates a
// database that was never seeded, not a caller typo.
var ErrStatusNotFound = errors.New("booking status not found")

// BookingStatusRepo resolves the seeded booking_statuses lookup table.
type BookingStatusRepo struct {
	db *sql.DB
}

func NewBookingStatusRepo(db *sql.DB) *BookingStatusRepo { return &BookingStatusRepo{db: db} }

// IDByName returns the lookup id for a typed status.
func (r *BookingStatusRepo) IDByName(ctx context.Context, status model.BookingStatus) (uint8, error) {
	var id uint8
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM booking_statuses WHERE name=? LIMIT 1", string(status)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrStatusNotFound
	}
	return id, err
}

// IDByNameTx is IDByName inside an existing transaction.
func (r *BookingStatusRepo) IDByNameTx(ctx context.Context, tx *sql.Tx, status model.BookingStatus) (uint8, error) {
	var id uint8
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM booking_statuses WHERE name=? LIMIT 1", string(status)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrStatusNotFound
	}
	return id, err
}
