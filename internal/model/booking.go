package model

import "time"

// Booking is the central transactional entity. The total cost is computed
// once at initiation and never recomputed; status transitions are driven by
// the typed BookingStatus set.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – customer who made the booking.
//  VehicleID   – vehicle being rented.
//  StatusID    – foreign key into booking_statuses.
//  BookingDate – when the booking was initiated.
//  StartDate   – rental period start (inclusive).
//  EndDate     – rental period end (exclusive for overlap purposes).
//  TotalCost   – days × price/day plus extras, rounded to 2 decimals.
type Booking struct {
	ID          uint64    // bookings.id
	UserID      uint64    // bookings.user_id
	VehicleID   uint64    // bookings.vehicle_id
	StatusID    uint8     // bookings.status_id
	BookingDate time.Time // bookings.booking_date
	StartDate   time.Time // bookings.start_date
	EndDate     time.Time // bookings.end_date
	TotalCost   float64   // bookings.total_cost DECIMAL(18,2)
}

// BookingExtra links a booking to an extra (composite primary key).
type BookingExtra struct {
	BookingID uint64 // booking_extras.booking_id
	ExtraID   uint64 // booking_extras.extra_id
}

// Payment is the one-to-one simulated payment created when a pending booking
// is confirmed. There is no real gateway; the transaction status is always
// "Succeeded".
type Payment struct {
	ID                uint64    // payments.id
	BookingID         uint64    // payments.booking_id (unique)
	Amount            float64   // payments.amount DECIMAL(18,2)
	PaymentDate       time.Time // payments.payment_date
	PaymentMethod     string    // payments.payment_method
	TransactionStatus string    // payments.transaction_status
}

// Refund records an admin-authorized repayment against a booking. At most one
// refund exists per booking; the amount defaults to the booking's full total
// cost when the admin does not specify one.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – booking being refunded.
//  IssueID     – optional issue that motivated the refund.
//  Amount      – refunded amount with 2-decimal precision.
//  Reason      – free-text justification.
//  AdminUserID – admin who authorized the refund.
//  RefundDate  – when the refund was processed.
type Refund struct {
	ID          uint64    // refunds.id
	BookingID   uint64    // refunds.booking_id
	IssueID     *uint64   // refunds.issue_id (nullable)
	Amount      float64   // refunds.amount DECIMAL(18,2)
	Reason      string    // refunds.reason
	AdminUserID uint64    // refunds.admin_user_id
	RefundDate  time.Time // refunds.refund_date
}
