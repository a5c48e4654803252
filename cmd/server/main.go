package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/wlpa/internal/app"
	"github.com/JonMunkholm/wlpa/internal/config"
	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
	"github.com/JonMunkholm/wlpa/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always runs.
func run() int {
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
		return 1
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"schedules_from_db", cfg.UsesDatabase(),
		"species_plus", cfg.CITES.Enabled,
		"empty_query", cfg.Search.EmptyQuery,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load reference data once. A failed load still starts the server so
	// users see a readable error instead of a refused connection.
	snap, closeDB, loadErr := app.Start(ctx, cfg)
	defer closeDB()
	if loadErr != nil {
		slog.Error("reference data failed to load",
			"error", loadErr,
			"code", core.MapError(loadErr).Code,
		)
	}

	server, err := web.NewServer(cfg, snap, loadErr)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		return 1
	}

	// Run blocks until a signal arrives and in-flight requests drain.
	if err := server.Run(ctx); err != nil {
		slog.Error("server stopped", "error", err)
		return 1
	}
	slog.Info("server stopped")
	return 0
}
