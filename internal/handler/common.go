// Package handler implements the HTTP endpoints.  Handlers assume JWT and
// role middleware have already run; they read the caller's identity from
// the Echo context and translate repository sentinels into status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/repository"
)

// getUserID extracts the authenticated user id stored by the JWT
// middleware.  JWT numeric claims decode as float64, hence the switch.
func getUserID(c echo.Context) (uint64, bool) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, true
	case int:
		return uint64(t), true
	case int64:
		return uint64(t), true
	case float64:
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// reservationError maps the reservation/avis sentinels onto HTTP responses.
// The distinctions matter to the clients: "not found", "not yours", and
// "not allowed from this status" each have their own code.
func reservationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "status does not allow this action"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
