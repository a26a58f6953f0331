package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	_ "github.com/JonMunkholm/datatable/internal/core/datasets" // Register all datasets
	"github.com/JonMunkholm/datatable/internal/logging"
	"github.com/JonMunkholm/datatable/internal/metrics"
	"github.com/JonMunkholm/datatable/internal/session"
	"github.com/JonMunkholm/datatable/internal/source"
	"github.com/JonMunkholm/datatable/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"page_size", cfg.Table.PageSize,
		"max_tables", cfg.Table.MaxInstances,
		"database", cfg.Source.DatabaseURL != "",
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Row sources: database, data directory, embedded samples
	ctx := context.Background()
	src, closeSource, err := source.Open(ctx, cfg.Source)
	if err != nil {
		slog.Error("failed to open row sources", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	slog.Info("datasets registered", "count", core.DatasetCount())
	for _, d := range core.All() {
		slog.Debug("dataset", "key", d.Info.Key, "column_sets", len(d.ColumnSets))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	sessions := session.NewManager(src, session.Config{
		PageSize:      cfg.Table.PageSize,
		TTL:           cfg.Table.InstanceTTL,
		MaxInstances:  cfg.Table.MaxInstances,
		SweepInterval: cfg.Table.SweepInterval,
		LoadTimeout:   cfg.Source.LoadTimeout,
	}, m)

	server := web.NewServer(sessions, cfg, m)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go sessions.Run(jobCtx)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		cancelJobs()
		closeSource()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
