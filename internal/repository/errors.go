// Package repository implements data access over the relational store. This
// file defines sentinel errors shared across repositories so that handlers
// can map failure scenarios onto HTTP statuses without inspecting SQL errors.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a vehicle that still has bookings.
// Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
