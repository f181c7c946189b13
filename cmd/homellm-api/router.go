// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical/homellm/cmd/homellm-api/handlers"
	"github.com/spherical/homellm/cmd/homellm-api/middleware"
	"github.com/spherical/homellm/internal/dataset"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/session"
)

// Services holds the dependencies the handlers are built from.
type Services struct {
	Parser   domain.ReadingParser
	Analyzer handlers.Analyzer
	Store    *session.Store
	Examples []dataset.Example
}

// AppConfig holds application configuration.
type AppConfig struct {
	RequestTimeout time.Duration
	MaxUploadBytes int64
	AllowedOrigins []string
}

// DefaultAppConfig returns default configuration values.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		RequestTimeout: 120 * time.Second,
		MaxUploadBytes: 20 * 1024 * 1024,
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, svc *Services, cfg *AppConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"homellm"}`))
	})

	guidanceHandler := handlers.NewGuidanceHandler(logger, svc.Examples)
	composeHandler := handlers.NewComposeHandler(logger, svc.Parser)
	sessionHandler := handlers.NewSessionHandler(logger, svc.Store, svc.Analyzer, cfg.MaxUploadBytes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/guidance", guidanceHandler.Snapshot)
		r.Get("/guidance/tables", guidanceHandler.Tables)
		r.Get("/dataset", guidanceHandler.Dataset)

		r.Post("/compose", composeHandler.Compose)
		r.Post("/readings/parse", composeHandler.ParseReadings)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/events", sessionHandler.ApplyEvent)
				r.Post("/analysis", sessionHandler.UploadAnalysis)
				r.Get("/email", sessionHandler.DownloadEmail)
			})
		})
	})

	return r
}
