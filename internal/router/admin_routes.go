package router

import (
	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/handler"
	"github.com/prestaci/prestaci-backend/internal/middleware"
	"github.com/prestaci/prestaci-backend/internal/model"
)

// RegisterAdmin registers the back-office surface.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))

	g.PATCH("/avis/:id/moderation", a.ModerateAvis)
	g.PATCH("/reservations/:id/status", a.UpdateReservationStatus)
}
