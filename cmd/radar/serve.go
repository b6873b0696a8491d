package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/techradar-io/radar-api/internal/platform/natsbus"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, task runner and account event subscriber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer app.cleanup()

			if migrate {
				if err := runMigrations(ctx, app, "up"); err != nil {
					return err
				}
			}
			return app.serve(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

// serve runs until ctx is cancelled or the HTTP server fails, then shuts
// everything down in reverse order of startup.
func (app *application) serve(ctx context.Context) error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	defer app.taskRunner.Stop()

	if app.config.NATS.Enabled() {
		conn, sub, err := app.startSubscriber()
		if err != nil {
			return err
		}
		defer func() {
			if err := sub.Stop(); err != nil {
				app.logger.Error("failed to drain subscription", slog.String("error", err.Error()))
			}
			conn.Close()
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	case err := <-serverErr:
		if err != nil {
			app.logger.Error("server failed", slog.String("error", err.Error()))
			return fmt.Errorf("server failed: %w", err)
		}
	}

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}

func (app *application) startSubscriber() (*nats.Conn, *natsbus.Subscriber, error) {
	conn, err := natsbus.Connect(app.config.NATS.URL, app.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	sub := natsbus.NewSubscriber(conn, natsbus.SubscriberConfig{
		Subject:    app.config.NATS.UserActivatedSubject,
		QueueGroup: app.config.NATS.QueueGroup,
	}, app.userService, app.metrics, app.logger)

	if err := sub.Start(); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return conn, sub, nil
}
