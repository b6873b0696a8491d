package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/techradar-io/radar-api/internal/platform/postgres"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateReset,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			return runMigrations(cmd.Context(), app, args[0])
		},
	}
}

func runMigrations(ctx context.Context, app *application, command string) error {
	app.logger.Info("running migrations", slog.String("command", command))
	if err := postgres.Migrate(ctx, app.db, command, app.logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
