package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/roadready/roadready-api/internal/model"
)

// ErrIssueNotFound is returned when an issue id has no row.
var ErrIssueNotFound = errors.New("issue not found")

// IssueRepo provides persistence for customer-reported issues.
type IssueRepo struct {
	db *sql.DB
}

func NewIssueRepo(db *sql.DB) *IssueRepo { return &IssueRepo{db: db} }

// Create inserts an issue and returns its id.
func (r *IssueRepo) Create(ctx context.Context, is *model.Issue) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO issues (booking_id, description, status, admin_notes, reported_at)
		 VALUES (?,?,?,?,?)`,
		is.BookingID, is.Description, is.Status, is.AdminNotes, is.ReportedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches the raw issue row.
func (r *IssueRepo) GetByID(ctx context.Context, id uint64) (model.Issue, error) {
	var is model.Issue
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, description, status, admin_notes, reported_at
		 FROM issues WHERE id=? LIMIT 1`, id).
		Scan(&is.ID, &is.BookingID, &is.Description, &is.Status, &is.AdminNotes, &is.ReportedAt)
	if err == sql.ErrNoRows {
		return model.Issue{}, ErrIssueNotFound
	}
	return is, err
}

// UpdateStatus overwrites the status string and, when notes ≠ nil, the admin
// notes. The status is intentionally free text; only staff can reach this.
func (r *IssueRepo) UpdateStatus(ctx context.Context, id uint64, status string, adminNotes *string) error {
	if adminNotes != nil {
		_, err := r.db.ExecContext(ctx,
			"UPDATE issues SET status=?, admin_notes=? WHERE id=?", status, adminNotes, id)
		return err
	}
	_, err := r.db.ExecContext(ctx, "UPDATE issues SET status=? WHERE id=?", status, id)
	return err
}

// IssueDetail is an issue joined with booking context for display.
type IssueDetail struct {
	ID          uint64  `json:"id"`
	BookingID   uint64  `json:"bookingId"`
	UserID      uint64  `json:"userId"`
	VehicleName string  `json:"vehicleName"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AdminNotes  *string `json:"adminNotes,omitempty"`
	ReportedAt  string  `json:"reportedAt"`
}

const issueDetailSelect = `SELECT i.id, i.booking_id, b.user_id, v.name, i.description,
		i.status, i.admin_notes, i.reported_at
	FROM issues i
	JOIN bookings b ON b.id = i.booking_id
	JOIN vehicles v ON v.id = b.vehicle_id`

func scanIssueDetails(rows *sql.Rows) ([]IssueDetail, error) {
	defer rows.Close()
	out := make([]IssueDetail, 0)
	for rows.Next() {
		var d IssueDetail
		var reportedAt time.Time
		if err := rows.Scan(&d.ID, &d.BookingID, &d.UserID, &d.VehicleName,
			&d.Description, &d.Status, &d.AdminNotes, &reportedAt); err != nil {
			return nil, err
		}
		d.ReportedAt = reportedAt.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetailsByID fetches one issue with its booking context.
func (r *IssueRepo) GetDetailsByID(ctx context.Context, id uint64) (*IssueDetail, error) {
	rows, err := r.db.QueryContext(ctx, issueDetailSelect+" WHERE i.id = ?", id)
	if err != nil {
		return nil, err
	}
	details, err := scanIssueDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrIssueNotFound
	}
	return &details[0], nil
}

// ListByUser returns a page of issues reported on the user's bookings,
// newest first, and the total count.
func (r *IssueRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]IssueDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issues i JOIN bookings b ON b.id = i.booking_id WHERE b.user_id=?`,
		userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		issueDetailSelect+` WHERE b.user_id = ? ORDER BY i.reported_at DESC LIMIT ? OFFSET ?`,
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	details, err := scanIssueDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// ListAll returns a page of every issue, newest first, and the total count.
func (r *IssueRepo) ListAll(ctx context.Context, page, pageSize int) ([]IssueDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM issues").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		issueDetailSelect+` ORDER BY i.reported_at DESC LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	details, err := scanIssueDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}
