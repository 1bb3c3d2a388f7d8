package router

import (
	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/handler"
	"github.com/prestaci/prestaci-backend/internal/middleware"
	"github.com/prestaci/prestaci-backend/internal/model"
)

// RegisterPrestataire registers the provider surface: profile management,
// the provider's own catalog and the incoming reservation queue.
func RegisterPrestataire(e *echo.Echo, svc *handler.PrestataireServiceHandler, res *handler.PrestataireReservationHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePrestataire, model.RoleAdmin))

	g.POST("/prestataire/profile", svc.CreateProfile)
	g.GET("/prestataire/profile", svc.GetProfile)

	g.GET("/my-services", svc.ListServices)
	g.POST("/my-services", svc.CreateService)
	g.PATCH("/my-services/:id", svc.UpdateService)

	g.GET("/prestataire/reservations", res.List)
	g.PATCH("/reservations/:id/status", res.UpdateStatus)
}
