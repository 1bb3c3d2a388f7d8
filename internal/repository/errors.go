// Package repository contains all database access for the application.
// Cross-cutting sentinel errors live here so handlers can translate failure
// modes into distinct HTTP responses: an empty list, a 403, a 404 and a 409
// are different answers and must never collapse into a generic error.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// existing state, such as submitting a second avis for the same
// reservation.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a reservation status change is not
// an edge of the lifecycle graph, including any attempt to leave a terminal
// status.  The row is left untouched.  Handlers translate this into 409.
var ErrInvalidTransition = errors.New("invalid status transition")

// isDuplicateKey detects MySQL error 1062 (duplicate entry) without
// depending on the driver's error type.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
