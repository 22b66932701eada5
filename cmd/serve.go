package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikelobato/qloudsound-api/internal/repositories"
	"github.com/mikelobato/qloudsound-api/internal/server"
	"github.com/mikelobato/qloudsound-api/internal/services"
	"github.com/urfave/cli/v3"
)

// Serve starts the song request API server.
//
// A missing or unusable database is not fatal: the server comes up and the
// persistence-backed routes report storage_error until a database is bound.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = port
	}

	db, submissions, catalog, err := r.openStores(config)
	if err != nil {
		// repositories over a nil handle answer every call with the
		// storage error, so the server still comes up
		r.logger.Warn("storage unavailable, persistence routes will fail", "error", err)
		schema := repositories.NewSchema(nil)
		submissions = repositories.NewSubmissionRepository(nil, schema)
		catalog = repositories.NewCatalogRepository(nil, schema)
	} else {
		defer db.Close()
	}

	notifier := services.NewTelegramNotifier("", config.Telegram.Token, config.Telegram.ChatID, r.httpClient)

	service := server.NewService(server.ServiceOpts{
		Version:           config.Service.Version,
		AllowedOrigins:    config.AllowedOrigins(),
		RequestsPerSecond: config.Server.RequestsPerSecond,
		Submissions:       submissions,
		Catalog:           catalog,
		Notifier:          notifier,
		Logger:            r.logger,
	})

	httpServer := &http.Server{
		Addr:         config.Addr(),
		Handler:      service.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", config.Addr(), "version", config.Service.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the song request API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host interface to bind",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
		},
		Action: r.Serve,
	}
}
