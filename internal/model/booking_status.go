package model

// BookingStatus is the closed set of lifecycle stages a booking can be in.
// The database keeps a seeded `booking_statuses` lookup table whose names
// match these constants exactly; repositories resolve the row id from the
// typed name, so a misspelled status is a compile error rather than a silent
// not-found at runtime.
type BookingStatus string

const (
	StatusPending       BookingStatus = "Pending"
	StatusConfirmed     BookingStatus = "Confirmed"
	StatusCompleted     BookingStatus = "Completed"
	StatusCancelled     BookingStatus = "Cancelled"
	StatusRefundPending BookingStatus = "Cancelled - Refund Pending"
	StatusNoRefund      BookingStatus = "Cancelled - No Refund"
	StatusRefunded      BookingStatus = "Cancelled - Refunded"
)

// AllBookingStatuses lists every status in seed order. The order fixes the
// lookup-table ids across fresh databases.
var AllBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusRefundPending,
	StatusNoRefund,
	StatusRefunded,
}

// ParseBookingStatus maps a display name onto the typed status. It returns
// false for names outside the closed set.
func ParseBookingStatus(name string) (BookingStatus, bool) {
	for _, s := range AllBookingStatuses {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// IsCancelled reports whether the status is any of the cancellation states.
// Cancelled bookings never block a vehicle's availability window.
func (s BookingStatus) IsCancelled() bool {
	switch s {
	case StatusCancelled, StatusRefundPending, StatusNoRefund, StatusRefunded:
		return true
	}
	return false
}

// CountsAsRevenue reports whether a booking in this status contributes its
// total cost to gross revenue on the admin dashboard.
func (s BookingStatus) CountsAsRevenue() bool {
	return s == StatusCompleted || s == StatusNoRefund
}

// BookingStatusRow mirrors the `booking_statuses` lookup table.
type BookingStatusRow struct {
	ID   uint8  // booking_statuses.id
	Name string // booking_statuses.name
}
