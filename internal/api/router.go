package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mreyes/jobtrack/internal/api/handlers"
	"github.com/mreyes/jobtrack/internal/api/middleware"
	"github.com/mreyes/jobtrack/internal/config"
	"github.com/mreyes/jobtrack/internal/service"
	"github.com/mreyes/jobtrack/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"jobtrack","status":"ok"}`))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	jobHandler := handlers.NewJobHandler(services.Job)
	analyticsHandler := handlers.NewAnalyticsHandler(services.Job)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgotpassword", authHandler.ForgotPassword)
			r.Put("/resetpassword/{resettoken}", authHandler.ResetPassword)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Put("/updatedetails", authHandler.UpdateDetails)
				r.Put("/updatepassword", authHandler.UpdatePassword)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Job routes
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", jobHandler.List)
				r.Post("/", jobHandler.Create)
				r.Get("/status-options", jobHandler.StatusOptions)
				r.Get("/{id}", jobHandler.Get)
				r.Put("/{id}", jobHandler.Update)
				r.Delete("/{id}", jobHandler.Delete)
			})

			// Analytics routes
			r.Get("/analytics/stats", analyticsHandler.Stats)
		})

		// WebSocket endpoint (token via query parameter or header)
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
