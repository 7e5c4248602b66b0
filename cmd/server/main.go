package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/air-quality-risk/internal/adapter/breakpoints"
	httpadapter "github.com/couchcryptid/air-quality-risk/internal/adapter/http"
	"github.com/couchcryptid/air-quality-risk/internal/assess"
	"github.com/couchcryptid/air-quality-risk/internal/config"
	"github.com/couchcryptid/air-quality-risk/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Built-in tables unless BREAKPOINTS_FILE is set.
	classifier, err := breakpoints.Load(cfg.BreakpointsFile)
	if err != nil {
		logger.Error("failed to load breakpoint tables", "error", err)
		os.Exit(1)
	}
	if cfg.BreakpointsFile != "" {
		metrics.BreakpointsCustom.Set(1)
		logger.Info("breakpoint tables loaded", "file", cfg.BreakpointsFile)
	} else {
		logger.Info("using built-in breakpoint tables")
	}

	svc, err := assess.NewService(classifier, logger, metrics, assess.WithStrictReadings(cfg.StrictReadings))
	if err != nil {
		logger.Error("failed to create assessment service", "error", err)
		os.Exit(1)
	}
	logger.Info("assessment service ready", "strict_readings", cfg.StrictReadings)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, cfg.CORSAllowedOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
