package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/user/linkstats/internal/app"
	"github.com/user/linkstats/internal/delivery/http/router"
	"github.com/user/linkstats/pkg/config"
	"github.com/user/linkstats/pkg/logger"
	"github.com/user/linkstats/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Dependencies ---
	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Unable to initialize application", "error", err)
		os.Exit(1)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	err = application.Ping(pingCtx)
	cancelPing()
	if err != nil {
		slog.Error("Unable to reach dependencies", "error", err)
		os.Exit(1)
	}
	slog.Info("PostgreSQL and Redis connections established")

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(application.Handler()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: router.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		slog.Error("Failed to release resources", "error", err)
	}
	slog.Info("Server exiting")
}
