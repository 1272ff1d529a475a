package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapgrid/snapgrid-be/internal/api/handlers"
	"github.com/snapgrid/snapgrid-be/internal/gate"
	"github.com/snapgrid/snapgrid-be/internal/grid"
	"github.com/snapgrid/snapgrid-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(g *gate.Gate, collection *grid.Collection, eventService services.EventServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(g)
	gridHandler := handlers.NewGridHandler(collection, g)
	eventHandler := handlers.NewEventHandler(eventService)

	r.Handle("/metrics", promhttp.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
			r.Get("/me", authHandler.Me)
		})

		r.Route("/grid", func(r chi.Router) {
			r.Get("/", gridHandler.Get)
			r.Post("/reorder", gridHandler.Reorder)
			r.Put("/query", gridHandler.SetQuery)
		})

		r.Get("/events", eventHandler.GetRecent)
	})

	return r
}
