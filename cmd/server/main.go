package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/userdesk/internal/config"
	"github.com/JonMunkholm/userdesk/internal/core"
	"github.com/JonMunkholm/userdesk/internal/logging"
	"github.com/JonMunkholm/userdesk/internal/storage"
	"github.com/JonMunkholm/userdesk/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"storage_driver", cfg.Storage.Driver,
		"default_page_size", cfg.List.DefaultPageSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	opened, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer opened.Close()

	service := core.NewService(ctx, opened.Store, core.Options{
		AuditCapacity: cfg.Audit.Capacity,
		SaveTimeout:   cfg.Storage.SaveTimeout,
	})

	server := web.NewServer(service, cfg)

	// Background jobs stop before the final flush.
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	jobsDone := make(chan struct{})
	go func() {
		defer close(jobsDone)
		service.StartFlushScheduler(jobCtx, cfg.Flush.Interval)
	}()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		cancelJobs()
		<-jobsDone

		if err := service.Flush(shutdownCtx); err != nil {
			slog.Error("final flush failed; unsaved changes lost", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		os.Exit(1)
	}

	<-shutdownDone
	slog.Info("server stopped")
}
