package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/roadready/roadready-api/internal/model"
)

// ErrBookingNotFound is returned when a booking id has no row.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides persistence for bookings and their attached extras.
// Multi-step writes (booking + extras, payment + status, refund + status) are
// exposed as ...Tx variants so handlers can run them atomically.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking within the scope of an existing transaction and
// populates the generated id on the provided record.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, vehicle_id, status_id, booking_date, start_date, end_date, total_cost)
		 VALUES (?,?,?,?,?,?,?)`,
		b.UserID, b.VehicleID, b.StatusID, b.BookingDate, b.StartDate, b.EndDate, b.TotalCost)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// AddExtrasBulkTx inserts booking_extras rows for the booking in a single
// statement. Passing an empty slice has no effect.
func (r *BookingRepo) AddExtrasBulkTx(ctx context.Context, tx *sql.Tx, bookingID uint64, extraIDs []uint64) error {
	if len(extraIDs) == 0 {
		return nil
	}
	query := "INSERT INTO booking_extras (booking_id, extra_id) VALUES "
	args := make([]interface{}, 0, len(extraIDs)*2)
	for i, id := range extraIDs {
		if i > 0 {
			query += ","
		}
		query += "(?,?)"
		args = append(args, bookingID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// OverlapExistsTx reports whether the vehicle has a non-cancelled booking
// whose date range intersects [start, end). Any of the Cancelled* statuses is
// non-blocking. Runs inside the initiate transaction, after the vehicle row
// has been locked.
func (r *BookingRepo) OverlapExistsTx(ctx context.Context, tx *sql.Tx, vehicleID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM bookings b
		JOIN booking_statuses s ON s.id = b.status_id
		WHERE b.vehicle_id = ?
		  AND s.name NOT LIKE 'Cancelled%'
		  AND ? < b.end_date
		  AND ? > b.start_date)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, vehicleID, start, end).Scan(&exists)
	return exists, err
}

// GetWithStatus fetches the raw booking row together with its typed status
// name, which ownership and transition checks need on every flow.
func (r *BookingRepo) GetWithStatus(ctx context.Context, id uint64) (model.Booking, model.BookingStatus, error) {
	const q = `SELECT b.id, b.user_id, b.vehicle_id, b.status_id, b.booking_date,
	                  b.start_date, b.end_date, b.total_cost, s.name
	           FROM bookings b
	           JOIN booking_statuses s ON s.id = b.status_id
	           WHERE b.id = ? LIMIT 1`
	var (
		b    model.Booking
		name string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.UserID, &b.VehicleID,
		&b.StatusID, &b.BookingDate, &b.StartDate, &b.EndDate, &b.TotalCost, &name)
	if err == sql.ErrNoRows {
		return model.Booking{}, "", ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, "", err
	}
	return b, model.BookingStatus(name), nil
}

// UpdateStatusTx moves a booking to a new status inside an existing
// transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, statusID uint8) error {
	_, err := tx.ExecContext(ctx, "UPDATE bookings SET status_id=? WHERE id=?", statusID, bookingID)
	return err
}

// UpdateStatus moves a booking to a new status as a standalone write (staff
// override endpoint).
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID uint64, statusID uint8) error {
	_, err := r.db.ExecContext(ctx, "UPDATE bookings SET status_id=? WHERE id=?", statusID, bookingID)
	return err
}

// BookingExtraDetail is an extra attached to a booking as shown in booking
// detail responses.
type BookingExtraDetail struct {
	ExtraID   uint64  `json:"extraId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PriceType string  `json:"priceType"`
}

// PaymentDetail is the payment attached to a confirmed booking.
type PaymentDetail struct {
	ID                uint64  `json:"id"`
	Amount            float64 `json:"amount"`
	PaymentDate       string  `json:"paymentDate"`
	PaymentMethod     string  `json:"paymentMethod"`
	TransactionStatus string  `json:"transactionStatus"`
}

// BookingDetail aggregates a booking with its vehicle, status, extras and
// payment for display.
type BookingDetail struct {
	ID           uint64               `json:"id"`
	UserID       uint64               `json:"userId"`
	VehicleID    uint64               `json:"vehicleId"`
	VehicleName  string               `json:"vehicleName"`
	BrandName    string               `json:"brandName"`
	LocationName string               `json:"locationName"`
	Status       string               `json:"status"`
	BookingDate  string               `json:"bookingDate"`
	StartDate    string               `json:"startDate"`
	EndDate      string               `json:"endDate"`
	TotalCost    float64              `json:"totalCost"`
	Extras       []BookingExtraDetail `json:"extras"`
	Payment      *PaymentDetail       `json:"payment,omitempty"`
}

const bookingDetailSelect = `SELECT b.id, b.user_id, b.vehicle_id, v.name, br.name,
		l.store_name, s.name, b.booking_date, b.start_date, b.end_date, b.total_cost
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN brands br ON br.id = v.brand_id
	JOIN locations l ON l.id = v.location_id
	JOIN booking_statuses s ON s.id = b.status_id`

func (r *BookingRepo) scanDetailRows(ctx context.Context, rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var bookingDate, startDate, endDate time.Time
		if err := rows.Scan(&d.ID, &d.UserID, &d.VehicleID, &d.VehicleName, &d.BrandName,
			&d.LocationName, &d.Status, &bookingDate, &startDate, &endDate, &d.TotalCost); err != nil {
			return nil, err
		}
		d.BookingDate = bookingDate.UTC().Format(time.RFC3339)
		d.StartDate = startDate.UTC().Format(time.RFC3339)
		d.EndDate = endDate.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachExtrasAndPayment(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *BookingRepo) attachExtrasAndPayment(ctx context.Context, d *BookingDetail) error {
	const extraQ = `SELECT e.id, e.name, e.price, e.price_type
		FROM booking_extras be
		JOIN extras e ON e.id = be.extra_id
		WHERE be.booking_id = ?
		ORDER BY e.name`
	rows, err := r.db.QueryContext(ctx, extraQ, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	d.Extras = make([]BookingExtraDetail, 0)
	for rows.Next() {
		var e BookingExtraDetail
		if err := rows.Scan(&e.ExtraID, &e.Name, &e.Price, &e.PriceType); err != nil {
			return err
		}
		d.Extras = append(d.Extras, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const payQ = `SELECT id, amount, payment_date, payment_method, transaction_status
		FROM payments WHERE booking_id = ? LIMIT 1`
	var (
		p       PaymentDetail
		payDate time.Time
	)
	err = r.db.QueryRowContext(ctx, payQ, d.ID).Scan(&p.ID, &p.Amount, &payDate,
		&p.PaymentMethod, &p.TransactionStatus)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	p.PaymentDate = payDate.UTC().Format(time.RFC3339)
	d.Payment = &p
	return nil
}

// GetDetailsByID fetches one booking with vehicle, status, extras and payment.
func (r *BookingRepo) GetDetailsByID(ctx context.Context, id uint64) (*BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailSelect+" WHERE b.id = ?", id)
	if err != nil {
		return nil, err
	}
	details, err := r.scanDetailRows(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrBookingNotFound
	}
	return &details[0], nil
}

// ListByUser returns a page of the user's bookings, newest first, and the
// total count.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]BookingDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		bookingDetailSelect+` WHERE b.user_id = ? ORDER BY b.booking_date DESC LIMIT ? OFFSET ?`,
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	details, err := r.scanDetailRows(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// ListAll returns a page of every booking, newest first, and the total count.
func (r *BookingRepo) ListAll(ctx context.Context, page, pageSize int) ([]BookingDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		bookingDetailSelect+` ORDER BY b.booking_date DESC LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	details, err := r.scanDetailRows(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// CountAll returns the total number of bookings.
func (r *BookingRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&n)
	return n, err
}

func revenueStatusCond() string {
	return "s.name IN ('" + string(model.StatusCompleted) + "','" + string(model.StatusNoRefund) + "')"
}

// GrossRevenue sums the total cost of bookings in revenue-counted statuses
// (Completed and Cancelled - No Refund).
func (r *BookingRepo) GrossRevenue(ctx context.Context) (float64, error) {
	q := `SELECT COALESCE(SUM(b.total_cost), 0)
		FROM bookings b
		JOIN booking_statuses s ON s.id = b.status_id
		WHERE ` + revenueStatusCond()
	var sum float64
	err := r.db.QueryRowContext(ctx, q).Scan(&sum)
	return sum, err
}

// PopularVehicle is a dashboard ranking entry.
type PopularVehicle struct {
	VehicleID    uint64 `json:"vehicleId"`
	VehicleName  string `json:"vehicleName"`
	BookingCount int    `json:"bookingCount"`
}

// MostPopularCompleted ranks vehicles by completed-booking count, descending,
// limited to the given size.
func (r *BookingRepo) MostPopularCompleted(ctx context.Context, limit int) ([]PopularVehicle, error) {
	const q = `SELECT v.id, v.name, COUNT(*) AS cnt
		FROM bookings b
		JOIN booking_statuses s ON s.id = b.status_id
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE s.name = ?
		GROUP BY v.id, v.name
		ORDER BY cnt DESC, v.id
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, string(model.StatusCompleted), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PopularVehicle, 0, limit)
	for rows.Next() {
		var p PopularVehicle
		if err := rows.Scan(&p.VehicleID, &p.VehicleName, &p.BookingCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HasActiveForVehicle reports whether any non-cancelled booking references
// the vehicle; used to refuse catalog deletes.
func (r *BookingRepo) HasActiveForVehicle(ctx context.Context, vehicleID uint64) (bool, error) {
	q := `SELECT EXISTS (
		SELECT 1 FROM bookings b
		JOIN booking_statuses s ON s.id = b.status_id
		WHERE b.vehicle_id = ? AND s.name NOT LIKE 'Cancelled%')`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, vehicleID).Scan(&exists)
	return exists, err
}
