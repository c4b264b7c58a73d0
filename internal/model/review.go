package model

import "time"

// Review is a customer rating for a vehicle, tied to the completed booking
// that makes the reviewer eligible. Rating is constrained to 1..5 at the
// handler boundary.
type Review struct {
	ID         uint64    // reviews.id
	UserID     uint64    // reviews.user_id
	VehicleID  uint64    // reviews.vehicle_id
	BookingID  uint64    // reviews.booking_id
	Rating     int       // reviews.rating (1..5)
	Comment    *string   // reviews.comment (nullable)
	ReviewDate time.Time // reviews.review_date
}
