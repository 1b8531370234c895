// Package main implements the entry point for the Deckard API server:
// a spaced repetition flashcard service with LLM-backed card generation.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmlarson/deckard/internal/config"
	"github.com/jmlarson/deckard/internal/platform/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// run loads configuration, handles the migrate subcommand, and otherwise
// starts the HTTP server. Split from main so errors flow back to a single
// exit point.
func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// `server migrate <command>` runs migrations and exits.
	if len(args) > 0 && args[0] == "migrate" {
		command := "up"
		if len(args) > 1 {
			command = args[1]
		}
		return runMigrations(cfg, appLogger, command)
	}

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := applyMigrations(db, appLogger); err != nil {
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
