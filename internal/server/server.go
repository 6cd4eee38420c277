// Package server provides the HTTP server and routing for Coinfolio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/coinfolio/internal/di"
	chartshandlers "github.com/aristath/coinfolio/internal/modules/charts/handlers"
	currencyhandlers "github.com/aristath/coinfolio/internal/modules/currency/handlers"
	holdingshandlers "github.com/aristath/coinfolio/internal/modules/holdings/handlers"
	portfoliohandlers "github.com/aristath/coinfolio/internal/modules/portfolio/handlers"
	"github.com/aristath/coinfolio/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Port        int
	DevMode     bool
	InnerRadius float64
	Container   *di.Container
	Jobs        []scheduler.Job // Jobs that can be triggered through the API
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	innerRadius    float64
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		port:        cfg.Port,
		container:   cfg.Container,
		innerRadius: cfg.InnerRadius,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.Container.PortfolioFacade,
			cfg.Jobs,
			cfg.Container.PortfolioDB,
			cfg.Container.CacheDB,
		),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Post("/jobs/{name}", s.systemHandlers.HandleTriggerJob)
		})

		portfoliohandlers.NewHandler(s.container.PortfolioFacade, s.log).RegisterRoutes(r)
		chartshandlers.NewHandler(
			s.container.PortfolioFacade,
			chartshandlers.Options{InnerRatio: s.innerRadius},
			s.log,
		).RegisterRoutes(r)
		holdingshandlers.NewHandler(s.container.HoldingsService, s.log).RegisterRoutes(r)

		currencyhandlers.NewHandler(s.container.CurrencyConverter, s.log).RegisterRoutes(r)
	})
}

// handleHealth reports liveness and whether a valuation exists
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, ready := s.container.PortfolioFacade.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "coinfolio",
		"ready":   ready,
	}); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
