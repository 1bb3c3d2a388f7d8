package model

import "time"

// Prestataire is the provider profile attached to a user account with the
// PRESTATAIRE role.  A user owns at most one prestataire row; services and
// reservations reference the prestataire id, not the user id.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owning user account (users.id).
//  NomEntreprise – business name shown to clients.
//  Description   – optional profile text.
//  Ville         – city where the provider operates.
//  Telephone     – contact phone number.
//  IsVerified    – set by an administrator after manual verification.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Prestataire struct {
	ID            uint64    // prestataires.id
	UserID        uint64    // prestataires.user_id
	NomEntreprise string    // prestataires.nom_entreprise
	Description   *string   // prestataires.description (nullable)
	Ville         string    // prestataires.ville
	Telephone     string    // prestataires.telephone
	IsVerified    bool      // prestataires.is_verified
	CreatedAt     time.Time // prestataires.created_at
	UpdatedAt     time.Time // prestataires.updated_at
}
