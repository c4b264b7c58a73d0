// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notifications.
package queue

// BookingConfirmedEvent is published when a pending booking is paid and moves
// to Confirmed. It carries enough context for downstream consumers to notify
// the customer without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	UserID        uint64  `json:"user_id"`
	VehicleID     uint64  `json:"vehicle_id"`
	VehicleName   string  `json:"vehicle_name"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalCost     float64 `json:"total_cost"`
	PaymentMethod string  `json:"payment_method"`
	ConfirmedAt   string  `json:"confirmed_at"`
}

// PasswordResetRequestedEvent is published when a known user asks for a
// password reset. The consumer plays the role of the email sender; the raw
// token travels only on the broker, the database holds its hash.
type PasswordResetRequestedEvent struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	ResetToken  string `json:"reset_token"`
	ExpiresAt   string `json:"expires_at"`
	RequestedAt string `json:"requested_at"`
}
