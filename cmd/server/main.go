package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/prestaci/prestaci-backend/internal/config"
	"github.com/prestaci/prestaci-backend/internal/database"
	"github.com/prestaci/prestaci-backend/internal/handler"
	"github.com/prestaci/prestaci-backend/internal/queue"
	"github.com/prestaci/prestaci-backend/internal/repository"
	"github.com/prestaci/prestaci-backend/internal/router"
	"github.com/prestaci/prestaci-backend/internal/service"
	"github.com/prestaci/prestaci-backend/internal/utils"
)

func main() {
	// .env is optional; in containers everything comes from the real env
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; caching and rate limiting switch off

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	prestataires := repository.NewPrestataireRepo(db)
	services := repository.NewServiceRepo(db)
	reservations := repository.NewReservationRepo(db)
	avis := repository.NewAvisRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	notifications := repository.NewNotificationRepo(db)
	pushTokens := repository.NewPushTokenRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e,
		handler.NewPublicCatalogHandler(services, prestataires, avis),
		rdb, config.CacheTTL(), config.RateLimitPerMinute())
	router.RegisterClient(e, router.ClientHandlers{
		Reservations:  handler.NewClientReservationHandler(reservations, services),
		Avis:          handler.NewAvisHandler(avis),
		Favorites:     handler.NewFavoriteHandler(favorites),
		Notifications: handler.NewNotificationHandler(notifications),
		PushTokens:    handler.NewPushTokenHandler(pushTokens),
	}, cfg.JWTSecret)
	router.RegisterPrestataire(e,
		handler.NewPrestataireServiceHandler(prestataires, services),
		handler.NewPrestataireReservationHandler(reservations, prestataires),
		cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(avis, reservations), cfg.JWTSecret)

	// status-changed consumer runs for the life of the process and
	// reconnects on broker failures
	consumer := queue.NewStatusConsumer(notifications, pushTokens)
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	completer := service.NewAutoCompleter(reservations)
	if err := completer.Start(cfg.AutoCompleteCron); err != nil {
		log.Fatalf("auto-complete cron: %v", err)
	}
	defer completer.Stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
