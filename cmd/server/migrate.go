package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Run database migrations",
		Long:      "Apply, roll back or inspect the embedded database migrations. Defaults to up.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrate(cmd, command)
		},
	}
}

// runMigrate executes one goose command against the configured database.
// Every log line of the run carries the same correlation_id.
func runMigrate(cmd *cobra.Command, command string) error {
	cfg, err := config.LoadForMigrations()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	baseLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log := baseLogger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
	)

	ctx := cmd.Context()
	start := time.Now()
	log.Info("Starting migration operation")

	db, err := openDatabase(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db, command, log); err != nil {
		log.Error("Migration operation failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return err
	}

	log.Info("Migration operation completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
