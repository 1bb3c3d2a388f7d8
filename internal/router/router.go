// Package router wires the HTTP surface: which paths exist, which
// middleware guards them and which handler serves them.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/prestaci/prestaci-backend/internal/handler"
	"github.com/prestaci/prestaci-backend/internal/middleware"
)

// RegisterRoutes registers the unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth plus the
// authenticated /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest browse surface.  These routes carry
// the Redis response cache and a rate limit; rdb may be nil, in which case
// both middlewares pass requests straight through.
func RegisterPublic(e *echo.Echo, p *handler.PublicCatalogHandler, rdb *redis.Client, cacheTTL time.Duration, ratePerMin int) {
	g := e.Group("/v1")
	g.Use(middleware.RateLimit(rdb, ratePerMin, time.Minute))
	g.Use(middleware.CacheResponses(rdb, cacheTTL, 1<<20))

	g.GET("/services", p.ListServices)
	g.GET("/services/:id", p.GetService)
	g.GET("/prestataires/:id", p.GetPrestataire)
	g.GET("/prestataires/:id/avis", p.ListAvis)
}
