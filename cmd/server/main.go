package main // Entry point package

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/config"
	"github.com/fcas/fcas-backend/internal/database"
	"github.com/fcas/fcas-backend/internal/handler"
	"github.com/fcas/fcas-backend/internal/middleware"
	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
	"github.com/fcas/fcas-backend/internal/router"
)

// main only reports the outcome; run owns the resources so deferred cleanup
// fires on every exit path (log.Fatal would skip defers).
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	// The single DB pool for the process. A failed connect is fatal: the
	// service is useless without its database.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("database connect: %w", err)
	}
	defer db.Close()

	franchises := repository.NewFranchiseRepo(db)
	locations := repository.NewLocationRepo(db)
	deviceTypes := repository.NewDeviceTypeRepo(db)
	devices := repository.NewDeviceRepo(db)
	history := repository.NewDeviceHistoryRepo(db)
	components := repository.NewComponentRepo(db)

	admin := handler.NewAdminHandler(franchises, locations, deviceTypes, devices, history, components)
	auth := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	// Redis is optional: without it the limiter middleware is a no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterAdmin(e, admin, cfg.JWTSecret, limiter)

	// Background consumer turns entity-changed events into the change log.
	go func() {
		if err := queue.StartEntityChangedConsumer(); err != nil {
			log.Printf("entity-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	return e.Start(addr)
}
