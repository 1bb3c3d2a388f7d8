package model

import "time"

// Favorite target types.  The same table stores all three kinds of
// bookmarks; target_type disambiguates what target_id points to.
const (
	FavoritePrestataire = "prestataire"
	FavoriteService     = "service"
	FavoritePublication = "publication"
)

// IsValidFavoriteType reports whether t is a known target type.
func IsValidFavoriteType(t string) bool {
	return t == FavoritePrestataire || t == FavoriteService || t == FavoritePublication
}

// Favorite is a simple membership relation: the natural key is
// (user_id, target_id, target_type) and duplicates are never created.
type Favorite struct {
	ID         uint64    // favorites.id
	UserID     uint64    // favorites.user_id
	TargetID   uint64    // favorites.target_id
	TargetType string    // favorites.target_type
	CreatedAt  time.Time // favorites.created_at
}
