package router

import (
	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/handler"
	"github.com/prestaci/prestaci-backend/internal/middleware"
	"github.com/prestaci/prestaci-backend/internal/model"
)

// ClientHandlers groups everything mounted under the client surface.
type ClientHandlers struct {
	Reservations  *handler.ClientReservationHandler
	Avis          *handler.AvisHandler
	Favorites     *handler.FavoriteHandler
	Notifications *handler.NotificationHandler
	PushTokens    *handler.PushTokenHandler
}

// RegisterClient registers the authenticated client routes.  Reservations
// and avis are client-only; favorites, notifications and push tokens are
// shared by every authenticated role.
func RegisterClient(e *echo.Echo, h ClientHandlers, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	client := auth.Group("", middleware.RequireRole(model.RoleClient, model.RoleAdmin))
	client.POST("/reservations", h.Reservations.Create)
	client.GET("/reservations", h.Reservations.List)
	client.POST("/reservations/:id/cancel", h.Reservations.Cancel)
	client.POST("/avis", h.Avis.Create)
	client.GET("/my-avis", h.Avis.ListMine)

	// detail is shared: the repository lets both the booking client and the
	// owning prestataire through and rejects everyone else
	auth.GET("/reservations/:id", h.Reservations.Get)

	auth.GET("/favorites", h.Favorites.List)
	auth.POST("/favorites", h.Favorites.Add)
	auth.DELETE("/favorites", h.Favorites.Remove)

	auth.GET("/notifications", h.Notifications.List)
	auth.GET("/notifications/unread-count", h.Notifications.UnreadCount)
	auth.POST("/notifications/:id/read", h.Notifications.MarkRead)
	auth.POST("/notifications/read-all", h.Notifications.MarkAllRead)

	auth.POST("/push-tokens", h.PushTokens.Register)
	auth.DELETE("/push-tokens/:token", h.PushTokens.Deactivate)
}
