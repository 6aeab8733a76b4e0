// Package server provides the HTTP server and routing for StockPulse.
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

	"github.com/stockpulse/stockpulse/internal/config"
	"github.com/stockpulse/stockpulse/internal/database"
	"github.com/stockpulse/stockpulse/internal/modules/forecast"
	forecasthandlers "github.com/stockpulse/stockpulse/internal/modules/forecast/handlers"
	"github.com/stockpulse/stockpulse/internal/modules/ledger"
	ledgerhandlers "github.com/stockpulse/stockpulse/internal/modules/ledger/handlers"
	"github.com/stockpulse/stockpulse/internal/modules/market"
	markethandlers "github.com/stockpulse/stockpulse/internal/modules/market/handlers"
	"github.com/stockpulse/stockpulse/internal/modules/pricing"
	pricinghandlers "github.com/stockpulse/stockpulse/internal/modules/pricing/handlers"
	"github.com/stockpulse/stockpulse/internal/reliability"
)

// Config holds server configuration.
type Config struct {
	Log             zerolog.Logger
	Config          *config.Config
	AccountsDB      *database.DB
	MarketDataDB    *database.DB
	ForecastsDB     *database.DB
	PricingService  *pricing.Service
	ForecastService *forecast.Service
	LedgerService   *ledger.Service
	MarketService   *market.Service
	BackupService   *reliability.BackupService // nil when backups are disabled
}

// Server represents the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            Config
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	databases := map[string]*database.DB{}
	for _, db := range []*database.DB{cfg.AccountsDB, cfg.MarketDataDB, cfg.ForecastsDB} {
		if db != nil {
			databases[db.Name()] = db
		}
	}

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Config.DataDir, databases, cfg.BackupService),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the chi router, used by tests to serve requests directly.
func (s *Server) Router() http.Handler {
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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Liveness check (no dependencies)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		pricingHandler := pricinghandlers.NewHandler(s.cfg.PricingService, s.log)
		pricingHandler.RegisterRoutes(r)

		forecastHandler := forecasthandlers.NewHandler(s.cfg.ForecastService, s.log)
		forecastHandler.RegisterRoutes(r)

		ledgerHandler := ledgerhandlers.NewHandler(s.cfg.LedgerService, s.log)
		ledgerHandler.RegisterRoutes(r)

		marketHandler := markethandlers.NewHandler(s.cfg.MarketService, s.log)
		marketHandler.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/health", s.systemHandlers.HandleSystemHealth)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			r.Get("/disk", s.systemHandlers.HandleDiskUsage)
			r.Get("/backups", s.systemHandlers.HandleListBackups)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Config.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
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
