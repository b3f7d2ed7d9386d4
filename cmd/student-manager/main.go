// main is the entry point of the Student Manager CLI.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment variables)
//  2. Initialise the logger
//  3. Open the storage backend named by the configuration
//  4. Run the interactive menu loop until the user selects Exit
//
// RUNNING THE TOOL:
//
//	go run ./cmd/student-manager --config=config/local.yaml
//
// or with environment variables only:
//
//	DB_DRIVER=sqlite3 STORAGE_PATH=students.db go run ./cmd/student-manager
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/menu"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/storage/postgres"
	"github.com/aanand-mishra/student-manager/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and/or environment and fatals if
	// anything is wrong. If this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger. Operational events go here; the
	// user-facing conversation happens on stdout through the menu.
	log := setupLogger(cfg.Env)

	log.Info("starting student-manager",
		slog.String("env", cfg.Env),
		slog.String("driver", cfg.Database.Driver),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// We hold the result as the storage.Storage INTERFACE, not a concrete
	// backend type. The menu only ever sees the interface, so swapping
	// engines means changing the driver name in the config, nothing else.
	store, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised")

	// ── 4. Run the Interactive Menu ───────────────────────────────────────
	// Run blocks until the user selects Exit (or stdin closes). Returning
	// from main ends the process with status 0.
	menu.New(os.Stdin, os.Stdout, store, log).Run()

	log.Info("student-manager stopped")
}

// openStorage selects the backend named by the config.
// Both backends satisfy storage.Storage.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Database.Driver {
	case "postgres", "":
		return postgres.New(cfg)
	case "sqlite3":
		return sqlite.New(cfg)
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.Database.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
