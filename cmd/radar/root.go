package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/techradar-io/radar-api/internal/config"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/platform/postgres"
)

// rootOptions is shared by every subcommand.
type rootOptions struct {
	configPath string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "radar",
		Short:         "Technology radar API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to a config file (default: ./config.yaml if present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTopicsCmd(opts),
		newProvisionCmd(opts),
	)
	return cmd
}

// load reads configuration and installs the JSON logger.
func (o *rootOptions) load() error {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	o.cfg = cfg
	o.logger = log
	return nil
}

// openApp connects to the database and wires the application.
func (o *rootOptions) openApp(ctx context.Context) (*application, error) {
	pool := postgres.DefaultPoolConfig()
	pool.MaxOpenConns = o.cfg.Database.MaxOpenConns

	db, err := postgres.Open(ctx, o.cfg.Database.URL, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w",
			postgres.MaskDatabaseURL(o.cfg.Database.URL), err)
	}
	o.logger.Info("database connection established",
		slog.String("database", postgres.MaskDatabaseURL(o.cfg.Database.URL)))

	app, err := newApplication(o.cfg, o.logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}
