// Package queue defines the message payloads exchanged over the broker and
// the background consumer that turns them into user notifications.
package queue

// StatusChangedQueue is the durable queue carrying reservation lifecycle
// events.  The publisher and the consumer must agree on this name.
const StatusChangedQueue = "reservation.status_changed"

// ReservationStatusChangedEvent is published after a reservation status has
// been persisted.  Delivery is best effort: losing an event loses a
// notification, never the status change itself.  The payload is
// self-contained so the consumer can render a message without re-reading
// the reservation.
type ReservationStatusChangedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	Reference       string `json:"reference"`
	OldStatus       string `json:"old_status"`
	NewStatus       string `json:"new_status"`
	ServiceNom      string `json:"service_nom"`
	DateReservation string `json:"date_reservation"`
	HeureDebut      string `json:"heure_debut"`
	// RecipientUserID is the counter-party to notify: the client when the
	// prestataire (or the system) changed the status, the prestataire's
	// user when the client did.
	RecipientUserID uint64 `json:"recipient_user_id"`
	ChangedAt       string `json:"changed_at"`
}
