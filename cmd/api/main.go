// Package main is the entry point for the ComfortSense API server.
//
// It loads configuration, initializes structured logging, loads the two
// regressor artifacts into the model registry, and builds the HTTP server
// with the core chassis (middleware, routing, health checks). The embedded
// dashboard is served at the root path; the JSON API lives under /v1.
//
// A failed artifact load does not abort startup: the service comes up
// degraded, the health endpoint reports it, and predictions fall back to the
// fixed neutral values.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"comfortsense/internal/api/handlers"
	"comfortsense/internal/comfort"
	"comfortsense/internal/config"
	"comfortsense/internal/core"
	"comfortsense/internal/model"
	"comfortsense/internal/observability"
	"comfortsense/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("comfortsense API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	// Load both regressor artifacts. Failures degrade instead of aborting.
	registry := model.LoadRegistry(context.Background(), cfg.Models, logger)
	if !registry.Available() {
		logger.Warn("starting degraded: fallback predictions will be served")
	}

	// Select the metrics backend. The CloudWatch collector needs credentials,
	// so local development defaults to the no-op collector.
	requestMetrics, predictionMetrics, err := newMetrics(cfg, logger, registry)
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	svc := comfort.NewService(registry, logger, predictionMetrics)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Metrics = requestMetrics
	srv.HealthProbes = append(srv.HealthProbes, registry)

	comfortHandler := handlers.NewComfortHandler(
		svc,
		registry,
		srv.Validator,
		logger,
		cfg.Feedback.FormURL,
	)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, func(r chi.Router) {
		comfortHandler.RegisterRoutes(r)
	})
	srv.Dashboard = web.Handler()

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// newMetrics returns the request and prediction collectors. Both share one
// CloudWatch client when metrics are enabled; otherwise both are no-ops.
// Artifact load failures are counted here as well, once, at startup.
func newMetrics(cfg *config.Config, logger *slog.Logger, registry *model.Registry) (core.MetricsCollector, comfort.PredictionRecorder, error) {
	if !cfg.Observability.EnableMetrics || cfg.Environment == "local" {
		noop := observability.NoopCollector{}
		return noop, noop, nil
	}

	client, err := observability.NewCloudWatchClient(context.Background(), cfg.AWS)
	if err != nil {
		return nil, nil, err
	}

	collector := observability.NewCloudWatchCollector(client, cfg.Observability.MetricNamespace, logger)
	for _, status := range registry.Status() {
		if !status.Loaded {
			collector.RecordArtifactFailure(status.Target)
		}
	}
	return collector, collector, nil
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})
	return slog.New(handler)
}

// Compile-time assertions that the registry satisfies the contracts it is
// wired into.
var (
	_ comfort.ModelProvider        = (*model.Registry)(nil)
	_ handlers.ModelStatusProvider = (*model.Registry)(nil)
	_ core.HealthProbe             = (*model.Registry)(nil)
	_ core.MetricsCollector        = (*observability.CloudWatchCollector)(nil)
	_ comfort.PredictionRecorder   = (*observability.CloudWatchCollector)(nil)
)
