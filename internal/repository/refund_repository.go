package repository

import (
	"context"
	"database/sql"

	"github.com/roadready/roadready-api/internal/model"
)

// RefundRepo provides persistence for admin-authorized refunds.
type RefundRepo struct {
	db *sql.DB
}

func NewRefundRepo(db *sql.DB) *RefundRepo { return &RefundRepo{db: db} }

// CreateTx inserts a refund row inside the process-refund transaction and
// populates the generated id.
func (r *RefundRepo) CreateTx(ctx context.Context, tx *sql.Tx, ref *model.Refund) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO refunds (booking_id, issue_id, amount, reason, admin_user_id, refund_date)
		 VALUES (?,?,?,?,?,?)`,
		ref.BookingID, ref.IssueID, ref.Amount, ref.Reason, ref.AdminUserID, ref.RefundDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ref.ID = uint64(id)
	return nil
}

// SumTiedToRevenue totals refunds whose booking currently sits in a
// revenue-counted status. The dashboard subtracts this from gross revenue,
// keeping the coupling between refunds and revenue explicit: a refunded
// booking has already left the revenue statuses, so its refund is not
// subtracted a second time.
func (r *RefundRepo) SumTiedToRevenue(ctx context.Context) (float64, error) {
	q := `SELECT COALESCE(SUM(r.amount), 0)
		FROM refunds r
		JOIN bookings b ON b.id = r.booking_id
		JOIN booking_statuses s ON s.id = b.status_id
		WHERE ` + revenueStatusCond()
	var sum float64
	err := r.db.QueryRowContext(ctx, q).Scan(&sum)
	return sum, err
}

// GetByBookingID fetches the refund attached to a booking, or sql.ErrNoRows.
func (r *RefundRepo) GetByBookingID(ctx context.Context, bookingID uint64) (model.Refund, error) {
	var ref model.Refund
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, issue_id, amount, reason, admin_user_id, refund_date
		 FROM refunds WHERE booking_id=? LIMIT 1`, bookingID).
		Scan(&ref.ID, &ref.BookingID, &ref.IssueID, &ref.Amount, &ref.Reason,
			&ref.AdminUserID, &ref.RefundDate)
	return ref, err
}
