// Entry point: loads configuration, opens MySQL and Redis, wires the
// repositories, services and handlers, starts the booking event
// consumer and serves the HTTP API.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/database"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/router"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	// Repositories.
	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	categories := repository.NewCategoryRepo(db)
	bookings := repository.NewBookingRepo(db)
	sessionsRepo := repository.NewSessionRepo(db)
	stats := repository.NewStatsRepo(db)

	// Services.
	sessions := service.NewSessions(sessionsRepo, cfg.TokenSecret,
		time.Duration(cfg.SessionTTLHours)*time.Hour)
	publisher := queue.NewPublisher(os.Getenv("RABBITMQ_URL"))
	reservations := service.NewReservations(rooms, users, bookings, publisher)

	// Middleware built from optional infrastructure.
	cacheCfg := config.LoadCacheConfig()
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}
	invalidate := func(ctx context.Context) {
		middleware.InvalidateCache(ctx, rdb, cacheCfg.Prefix)
	}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(users, sessions, cfg.BcryptCost),
		Profile:  handler.NewProfileHandler(users, cfg.BcryptCost),
		Public:   handler.NewPublicHandler(rooms, categories, reservations),
		Client:   handler.NewClientReservationHandler(reservations),
		Booking:  handler.NewStaffBookingHandler(reservations, stats),
		Room:     handler.NewStaffRoomHandler(rooms, invalidate),
		Category: handler.NewStaffCategoryHandler(categories, invalidate),
		User:     handler.NewStaffUserHandler(users, cfg.BcryptCost),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, h, sessions, cacheMW)

	// Background workers: event consumer and expired session sweeper.
	go queue.StartBookingConsumer(os.Getenv("RABBITMQ_URL"))
	go sweepSessions(sessionsRepo)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepSessions deletes expired token rows hourly so the table does
// not grow with every abandoned login.
func sweepSessions(repo *repository.SessionRepo) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if n, err := repo.DeleteExpired(ctx); err != nil {
			log.Printf("session sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("session sweep removed %d expired sessions", n)
		}
		cancel()
	}
}
