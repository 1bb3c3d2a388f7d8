package model

import "time"

// Avis is a client review of a completed reservation.  At most one avis may
// exist per reservation; the rule is enforced by an eligibility check at
// creation time rather than by a database constraint.  Once submitted the
// author never mutates it; only moderation touches the row afterwards.
//
// IsApproved is a three-state flag: nil while moderation is pending, then
// true or false once an administrator has decided.
type Avis struct {
	ID            uint64    // avis.id
	ReservationID uint64    // avis.reservation_id
	ClientID      uint64    // avis.client_id (copied from the reservation)
	PrestataireID uint64    // avis.prestataire_id (copied from the reservation)
	Note          uint8     // avis.note (1..5)
	Commentaire   *string   // avis.commentaire (nullable)
	Photos        []string  // avis.photos (JSON array of image references)
	IsApproved    *bool     // avis.is_approved (nullable)
	CreatedAt     time.Time // avis.created_at
	UpdatedAt     time.Time // avis.updated_at
}
