package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roadready/roadready-api/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"two full days", "2026-06-01T10:00:00Z", "2026-06-03T10:00:00Z", 2},
		{"fractional day", "2026-06-01T10:00:00Z", "2026-06-02T22:00:00Z", 1.5},
		{"half day", "2026-06-01T00:00:00Z", "2026-06-01T12:00:00Z", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rentalDays(date(tt.start), date(tt.end)), 1e-9)
		})
	}
}

func TestBookingCost(t *testing.T) {
	gps := model.Extra{Name: "GPS Navigation System", Price: 500, PriceType: model.PriceFlatFee}
	childSeat := model.Extra{Name: "Child Safety Seat", Price: 250, PriceType: model.PricePerDay}

	tests := []struct {
		name        string
		pricePerDay float64
		days        float64
		extras      []model.Extra
		want        float64
	}{
		{"no extras", 1000, 2, nil, 2000},
		{"flat fee and per-day extras", 1000, 2, []model.Extra{gps, childSeat}, 3000},
		{"fractional days charge exactly", 1000, 1.5, []model.Extra{childSeat}, 1875},
		{"flat fee ignores duration", 800, 0.5, []model.Extra{gps}, 900},
		{"rounds to two decimals", 333.33, 3, nil, 999.99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bookingCost(tt.pricePerDay, tt.days, tt.extras))
		})
	}
}

func TestCancellationStatus(t *testing.T) {
	now := date("2026-06-01T00:00:00Z")

	tests := []struct {
		name  string
		start string
		want  model.BookingStatus
	}{
		{"well before start", "2026-06-05T00:00:00Z", model.StatusRefundPending},
		{"just over the window", "2026-06-03T00:00:01Z", model.StatusRefundPending},
		{"exactly 48 hours", "2026-06-03T00:00:00Z", model.StatusNoRefund},
		{"inside the window", "2026-06-02T00:00:00Z", model.StatusNoRefund},
		{"already started", "2026-05-31T00:00:00Z", model.StatusNoRefund},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cancellationStatus(date(tt.start), now))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, round2(10.556))
	assert.Equal(t, 10.55, round2(10.554))
	assert.Equal(t, 10.0, round2(10.0))
	assert.Equal(t, 0.1, round2(0.1))
	assert.Equal(t, 1875.0, round2(1874.9999999999998))
}
