// Package server provides the HTTP server and routing for the stocks backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/database"
	chartshandlers "github.com/marketdesk/marketdesk/internal/modules/charts/handlers"
	ordershandlers "github.com/marketdesk/marketdesk/internal/modules/orders/handlers"
	positionshandlers "github.com/marketdesk/marketdesk/internal/modules/positions/handlers"
	quoteshandlers "github.com/marketdesk/marketdesk/internal/modules/quotes/handlers"
	watchlisthandlers "github.com/marketdesk/marketdesk/internal/modules/watchlist/handlers"
)

// Config holds server configuration
type Config struct {
	Log               zerolog.Logger
	DB                *database.DB
	Port              int
	DevMode           bool
	QuoteHandlers     *quoteshandlers.QuoteHandlers
	WatchlistHandlers *watchlisthandlers.WatchlistHandlers
	OrderHandlers     *ordershandlers.OrderHandlers
	PositionHandlers  *positionshandlers.PositionHandlers
	ChartHandlers     *chartshandlers.ChartHandlers
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	db             *database.DB
	systemHandlers *SystemHandlers
	cfg            Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		db:             cfg.DB,
		systemHandlers: NewSystemHandlers(cfg.DB, cfg.Log),
		cfg:            cfg,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)

		s.cfg.QuoteHandlers.RegisterRoutes(r)
		s.cfg.WatchlistHandlers.RegisterRoutes(r)
		s.cfg.OrderHandlers.RegisterRoutes(r)
		s.cfg.PositionHandlers.RegisterRoutes(r)
		s.cfg.ChartHandlers.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
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
