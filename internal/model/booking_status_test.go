package model

import "testing"

func TestParseBookingStatus(t *testing.T) {
	for _, s := range AllBookingStatuses {
		got, ok := ParseBookingStatus(string(s))
		if !ok || got != s {
			t.Fatalf("ParseBookingStatus(%q) = %q, %v", s, got, ok)
		}
	}
	if _, ok := ParseBookingStatus("Paused"); ok {
		t.Fatal("ParseBookingStatus accepted a name outside the closed set")
	}
	if _, ok := ParseBookingStatus("pending"); ok {
		t.Fatal("ParseBookingStatus should be case sensitive")
	}
}

func TestIsCancelled(t *testing.T) {
	cancelled := map[BookingStatus]bool{
		StatusPending:       false,
		StatusConfirmed:     false,
		StatusCompleted:     false,
		StatusCancelled:     true,
		StatusRefundPending: true,
		StatusNoRefund:      true,
		StatusRefunded:      true,
	}
	for s, want := range cancelled {
		if got := s.IsCancelled(); got != want {
			t.Errorf("%q.IsCancelled() = %v, want %v", s, got, want)
		}
	}
}

func TestCountsAsRevenue(t *testing.T) {
	revenue := map[BookingStatus]bool{
		StatusPending:       false,
		StatusConfirmed:     false,
		StatusCompleted:     true,
		StatusCancelled:     false,
		StatusRefundPending: false,
		StatusNoRefund:      true,
		StatusRefunded:      false,
	}
	for s, want := range revenue {
		if got := s.CountsAsRevenue(); got != want {
			t.Errorf("%q.CountsAsRevenue() = %v, want %v", s, got, want)
		}
	}
}
