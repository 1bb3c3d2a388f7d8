package utils

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservationReference(t *testing.T) {
	ref := NewReservationReference()
	assert.True(t, strings.HasPrefix(ref, "RSV-"))
	assert.Len(t, ref, 12)
	assert.Equal(t, strings.ToUpper(ref), ref)

	// references must not collide in practice
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		r := NewReservationReference()
		assert.False(t, seen[r], "duplicate reference %s", r)
		seen[r] = true
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "CLIENT", 15)
	require.NoError(t, err)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "CLIENT", claims["role"])

	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err, "wrong secret must fail verification")
}

func TestRefreshTokenHashing(t *testing.T) {
	tok, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, tok.Raw, 96, "48 random bytes hex encoded")

	h := HashRefreshRaw(tok.Raw)
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw(tok.Raw), "hashing is deterministic")
	assert.NotEqual(t, h, HashRefreshRaw(tok.Raw+"x"))
	assert.NotContains(t, h, tok.Raw, "raw token never appears in the stored hash")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4) // low cost keeps the test fast
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestRequestValidator(t *testing.T) {
	type body struct {
		Email string `validate:"required,email"`
		Note  uint8  `validate:"min=1,max=5"`
	}
	v := NewRequestValidator()
	assert.NoError(t, v.Validate(&body{Email: "a@b.test", Note: 3}))
	assert.Error(t, v.Validate(&body{Email: "not-an-email", Note: 3}))
	assert.Error(t, v.Validate(&body{Email: "a@b.test", Note: 9}))
}
