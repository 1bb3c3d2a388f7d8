package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestaci/prestaci-backend/internal/utils"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"

	t.Run("valid token passes and claims land in the context", func(t *testing.T) {
		tok, err := utils.NewAccessToken(secret, 42, "CLIENT", 15)
		require.NoError(t, err)

		rec, c := doRequest(t, JWTAuth(secret), "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(42), c.Get("user_id"))
		assert.Equal(t, "CLIENT", c.Get("role"))
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := doRequest(t, JWTAuth(secret), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 42, "CLIENT", 15)
		require.NoError(t, err)

		rec, _ := doRequest(t, JWTAuth(secret), "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := doRequest(t, JWTAuth(secret), "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	run := func(role any, allowed ...string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		handler := RequireRole(allowed...)(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
		require.NoError(t, handler(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run("ADMIN", "ADMIN").Code)
	assert.Equal(t, http.StatusOK, run("CLIENT", "CLIENT", "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run("CLIENT", "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run(nil, "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run(42, "ADMIN").Code)
}
