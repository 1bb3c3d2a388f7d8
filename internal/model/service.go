package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service represents a bookable offering published by a prestataire.
// Every service belongs to exactly one prestataire; listings for the
// "my services" screen must always filter on PrestataireID and never
// fall back to an unfiltered scan.
//
// Fields:
//  ID              – primary key identifier.
//  PrestataireID   – owning provider (prestataires.id, not users.id).
//  SousCategorieID – sub-category the service is listed under.
//  Nom             – display name.
//  Description     – optional longer description.
//  Prix            – current price; snapshotted onto reservations at booking.
//  Devise          – currency code.
//  DureeMinutes    – expected duration, used to derive reservation end times.
//  IsActive        – inactive services cannot be booked.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Service struct {
	ID              uint64          // services.id
	PrestataireID   uint64          // services.prestataire_id
	SousCategorieID uint64          // services.sous_categorie_id
	Nom             string          // services.nom
	Description     *string         // services.description (nullable)
	Prix            decimal.Decimal // services.prix
	Devise          string          // services.devise
	DureeMinutes    uint32          // services.duree_minutes
	IsActive        bool            // services.is_active
	CreatedAt       time.Time       // services.created_at
	UpdatedAt       time.Time       // services.updated_at
}
