package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation statuses.  The values are stored verbatim in the
// reservations.statut column and exposed unchanged over the API, so the
// French spelling used by the clients is kept here.
const (
	StatusEnAttente = "en_attente" // awaiting a decision from the prestataire
	StatusConfirmee = "confirmee"  // accepted by the prestataire
	StatusTerminee  = "terminee"   // service delivered (terminal)
	StatusAnnulee   = "annulee"    // cancelled by the client (terminal)
	StatusRefusee   = "refusee"    // refused by the prestataire (terminal)
)

// transitions is the full directed graph of allowed status changes.
// Anything not listed here is rejected, whoever asks for it.
var transitions = map[string][]string{
	StatusEnAttente: {StatusConfirmee, StatusAnnulee, StatusRefusee},
	StatusConfirmee: {StatusTerminee, StatusAnnulee, StatusRefusee},
	StatusTerminee:  {},
	StatusAnnulee:   {},
	StatusRefusee:   {},
}

// IsValidStatus reports whether s is one of the five known statuses.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminalStatus reports whether no further transition can leave s.
func IsTerminalStatus(s string) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether a reservation may move from status
// `from` to status `to` along the lifecycle graph.
func CanTransition(from, to string) bool {
	for _, n := range transitions[from] {
		if n == to {
			return true
		}
	}
	return false
}

// CancellableStatuses lists the statuses from which the client may still
// cancel.  It is also the set used to build the guarded UPDATE that performs
// the cancellation, so the check and the write agree on the same statuses.
func CancellableStatuses() []string {
	return []string{StatusEnAttente, StatusConfirmee}
}

// CanCancel reports whether the client cancel action is available.
func CanCancel(status string) bool {
	return status == StatusEnAttente || status == StatusConfirmee
}

// CanRate reports whether the client may leave an avis: the reservation must
// be finished and not already rated.
func CanRate(status string, hasAvis bool) bool {
	return status == StatusTerminee && !hasAvis
}

// Reservation mirrors a row of the reservations table.  Price and currency
// are snapshots taken from the service at booking time; later price changes
// on the service do not affect existing reservations.  The prestataire_id
// is likewise copied from the service when the row is created so that
// historical rows stay correct even if a service is ever reassigned.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – human-facing reference shown to both parties.
//  ClientID        – user who booked.
//  PrestataireID   – provider owning the booked service (copied at creation).
//  ServiceID       – booked service.
//  DateReservation – calendar date of the appointment.
//  HeureDebut      – start time of day, "HH:MM" format.
//  HeureFin        – end time of day, derived from the service duration.
//  Statut          – current lifecycle status (see constants above).
//  PrixFinal       – price snapshot at booking time.
//  Devise          – currency code snapshot ("XOF", "EUR", ...).
//  NotesClient     – optional free text from the client.
//  ADomicile       – true when the service is delivered at the client's address.
//  AdresseRdv      – meeting address, required when ADomicile is true.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64          // reservations.id
	Reference       string          // reservations.reference
	ClientID        uint64          // reservations.client_id
	PrestataireID   uint64          // reservations.prestataire_id
	ServiceID       uint64          // reservations.service_id
	DateReservation time.Time       // reservations.date_reservation (DATE)
	HeureDebut      string          // reservations.heure_debut
	HeureFin        string          // reservations.heure_fin
	Statut          string          // reservations.statut
	PrixFinal       decimal.Decimal // reservations.prix_final
	Devise          string          // reservations.devise
	NotesClient     *string         // reservations.notes_client (nullable)
	ADomicile       bool            // reservations.a_domicile
	AdresseRdv      *string         // reservations.adresse_rdv (nullable)
	CreatedAt       time.Time       // reservations.created_at
	UpdatedAt       time.Time       // reservations.updated_at
}
