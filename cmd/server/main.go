// Package main is the entry point for the Coinfolio portfolio valuation service.
// It values a set of held crypto assets against live market quotes, keeps the
// result fresh on a polling schedule and serves views and charts over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/coinfolio/internal/config"
	"github.com/aristath/coinfolio/internal/di"
	"github.com/aristath/coinfolio/internal/scheduler"
	"github.com/aristath/coinfolio/internal/server"
	"github.com/aristath/coinfolio/pkg/logger"
)

func main() {
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

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("base_currency", string(cfg.BaseCurrency)).
		Dur("poll_interval", cfg.PollInterval).
		Msg("Starting Coinfolio")

	sched := scheduler.New(log)

	container, jobs, err := di.Wire(cfg, sched, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close databases")
		}
	}()

	// Initial valuation so the API has data before the first tick
	if err := sched.RunNow(jobs.Refresh); err != nil {
		log.Error().Err(err).Msg("Initial portfolio refresh failed")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		InnerRadius: cfg.InnerRadius,
		Container:   container,
		Jobs:        jobs.All(),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	// No new ticks; waits for a running refresh
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
