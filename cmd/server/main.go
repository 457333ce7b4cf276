// Package main is the entry point for the stocks paper-trading backend.
// The application proxies Yahoo Finance market data and persists per-user
// watchlists and paper-trading orders, deriving net positions with
// unrealized P&L on request.
//
// Startup sequence:
//  1. Load configuration from environment variables (.env supported)
//  2. Initialize structured logging
//  3. Open the application database and initialize schemas
//  4. Wire clients, repositories, services, and handlers
//  5. Start the HTTP server and wait for a shutdown signal
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
	"github.com/marketdesk/marketdesk/internal/config"
	"github.com/marketdesk/marketdesk/internal/database"
	"github.com/marketdesk/marketdesk/internal/modules/charts"
	chartshandlers "github.com/marketdesk/marketdesk/internal/modules/charts/handlers"
	"github.com/marketdesk/marketdesk/internal/modules/orders"
	ordershandlers "github.com/marketdesk/marketdesk/internal/modules/orders/handlers"
	"github.com/marketdesk/marketdesk/internal/modules/positions"
	positionshandlers "github.com/marketdesk/marketdesk/internal/modules/positions/handlers"
	quoteshandlers "github.com/marketdesk/marketdesk/internal/modules/quotes/handlers"
	"github.com/marketdesk/marketdesk/internal/modules/watchlist"
	watchlisthandlers "github.com/marketdesk/marketdesk/internal/modules/watchlist/handlers"
	"github.com/marketdesk/marketdesk/internal/server"
	"github.com/marketdesk/marketdesk/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting stocks backend")

	// One database handle for the process lifetime, closed at shutdown
	db, err := database.New(database.Config{
		Path: cfg.DatabasePath(),
		Name: "stocks",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := watchlist.InitSchema(db.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize watchlist schema")
	}
	if err := orders.InitSchema(db.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize orders schema")
	}

	// Market data gateway
	yahooClient := yahoo.NewClient(cfg.YahooBaseURL, log)

	// Repositories and services
	watchlistRepo := watchlist.NewRepository(db.Conn(), log)
	orderRepo := orders.NewRepository(db.Conn(), log)
	positionService := positions.NewService(orderRepo, yahooClient, log)
	chartService := charts.NewService(yahooClient, log)

	srv := server.New(server.Config{
		Port:              cfg.Port,
		DevMode:           cfg.DevMode,
		Log:               log,
		DB:                db,
		QuoteHandlers:     quoteshandlers.NewQuoteHandlers(yahooClient, log),
		WatchlistHandlers: watchlisthandlers.NewWatchlistHandlers(watchlistRepo, log),
		OrderHandlers:     ordershandlers.NewOrderHandlers(orderRepo, log),
		PositionHandlers:  positionshandlers.NewPositionHandlers(positionService, log),
		ChartHandlers:     chartshandlers.NewChartHandlers(chartService, log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
