package handler

import (
	"math"
	"time"

	"github.com/roadready/roadready-api/internal/model"
)

// cancellationWindow is the minimum lead time before the rental start for a
// cancellation to qualify for a refund.
const cancellationWindow = 48 * time.Hour

// rentalDays converts a rental period into fractional days. A 36-hour rental
// is billed as 1.5 days, not rounded up to 2.
func rentalDays(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// round2 rounds a money amount to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// bookingCost computes the total cost of a rental: days times the vehicle's
// daily price, plus each extra charged either per day or once per booking.
// The result carries 2-decimal precision.
func bookingCost(pricePerDay float64, days float64, extras []model.Extra) float64 {
	total := days * pricePerDay
	for _, e := range extras {
		if e.PriceType == model.PricePerDay {
			total += e.Price * days
		} else {
			total += e.Price
		}
	}
	return round2(total)
}

// cancellationStatus decides the outcome of a customer cancellation: more
// than 48 hours before the rental start the booking becomes refund-pending,
// otherwise the customer forfeits the payment. Exactly 48 hours does not
// qualify for a refund.
func cancellationStatus(start, now time.Time) model.BookingStatus {
	if start.Sub(now) > cancellationWindow {
		return model.StatusRefundPending
	}
	return model.StatusNoRefund
}
