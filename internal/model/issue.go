package model

import "time"

// Issue is a customer-reported problem on an active booking. Unlike
// BookingStatus, the status here is a plain string field ("Open" at creation,
// freely overwritten by staff) rather than a lookup table.
type Issue struct {
	ID          uint64    // issues.id
	BookingID   uint64    // issues.booking_id
	Description string    // issues.description
	Status      string    // issues.status
	AdminNotes  *string   // issues.admin_notes (nullable)
	ReportedAt  time.Time // issues.reported_at
}

// IssueStatusOpen is the default status assigned when an issue is reported.
const IssueStatusOpen = "Open"
