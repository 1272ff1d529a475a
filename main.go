package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snapgrid/snapgrid-be/internal/api"
	"github.com/snapgrid/snapgrid-be/internal/config"
	"github.com/snapgrid/snapgrid-be/internal/database"
	"github.com/snapgrid/snapgrid-be/internal/gate"
	"github.com/snapgrid/snapgrid-be/internal/grid"
	"github.com/snapgrid/snapgrid-be/internal/logger"
	"github.com/snapgrid/snapgrid-be/internal/services"
	"github.com/snapgrid/snapgrid-be/internal/session"
	"github.com/snapgrid/snapgrid-be/internal/unsplash"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the session slot store
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		sessions, err = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
	default:
		sessions = session.NewMemoryStore()
	}
	defer sessions.Close()

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	sessionGate := gate.New(userService, sessions, eventService)

	searcher := unsplash.NewClient(cfg.UnsplashBase, cfg.UnsplashKey)
	collection := grid.NewCollection(searcher, eventService)

	// Populate the grid with an unscoped fetch; a failure here is surfaced
	// like any other load failure and the grid starts empty.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := collection.Load(ctx, ""); err != nil {
			log.Printf("Initial grid load failed: %v", err)
		}
	}()

	// Set up router
	router := api.NewRouter(sessionGate, collection, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
