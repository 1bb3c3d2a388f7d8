package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReservationReference produces the human-facing reference printed on
// booking confirmations, e.g. "RSV-9F3A2C1B".  It is distinct from the
// numeric primary key and safe to read over the phone.
func NewReservationReference() string {
	id := uuid.New().String()
	return "RSV-" + strings.ToUpper(id[:8])
}
