package model

import "time"

// Application roles carried in the JWT "role" claim.
const (
	RoleClient      = "CLIENT"
	RolePrestataire = "PRESTATAIRE"
	RoleAdmin       = "ADMIN"
)

// User mirrors the `users` table.  PRESTATAIRE accounts additionally own a
// row in `prestataires`; the profile is created separately after sign-up.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
