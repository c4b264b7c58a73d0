package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/roadready/roadready-api/internal/model"
)

// ReviewRepo provides persistence for vehicle reviews.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// DB exposes the underlying handle so the review handler can run the insert
// and the rating recompute in one transaction.
func (r *ReviewRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a review inside an existing transaction and populates the
// generated id.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Review) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (user_id, vehicle_id, booking_id, rating, comment, review_date)
		 VALUES (?,?,?,?,?,?)`,
		rv.UserID, rv.VehicleID, rv.BookingID, rv.Rating, rv.Comment, rv.ReviewDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ReviewDetail is a review joined with the reviewer's name for display.
type ReviewDetail struct {
	ID         uint64  `json:"id"`
	VehicleID  uint64  `json:"vehicleId"`
	BookingID  uint64  `json:"bookingId"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment,omitempty"`
	ReviewDate string  `json:"reviewDate"`
	Reviewer   string  `json:"reviewer"`
}

// ListByVehicle returns a page of a vehicle's reviews, newest first, and the
// total count.
func (r *ReviewRepo) ListByVehicle(ctx context.Context, vehicleID uint64, page, pageSize int) ([]ReviewDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE vehicle_id=?", vehicleID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT r.id, r.vehicle_id, r.booking_id, r.rating, r.comment, r.review_date,
	                  CONCAT(u.first_name, ' ', u.last_name)
	           FROM reviews r
	           JOIN users u ON u.id = r.user_id
	           WHERE r.vehicle_id = ?
	           ORDER BY r.review_date DESC
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, vehicleID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]ReviewDetail, 0, pageSize)
	for rows.Next() {
		var d ReviewDetail
		var reviewDate time.Time
		if err := rows.Scan(&d.ID, &d.VehicleID, &d.BookingID, &d.Rating, &d.Comment,
			&reviewDate, &d.Reviewer); err != nil {
			return nil, 0, err
		}
		d.ReviewDate = reviewDate.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
