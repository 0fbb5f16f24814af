// Package app initializes and orchestrates the main components of the
// LabelPilot application. It wires together the configuration, server, and
// background workers.
package app

import (
	"context"
	"log/slog"

	"github.com/labelpilot/labelpilot/internal/config"
	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/server"
)

// App holds the main application components.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewApp assembles the application from its already-constructed components.
func NewApp(ctx context.Context, cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, logger *slog.Logger) *App {
	return &App{
		ctx:        ctx,
		cfg:        cfg,
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting LabelPilot",
		"server_port", a.cfg.Server.Port,
		"max_workers", a.cfg.MaxWorkers,
		"engine_configured", a.cfg.Engine.Enabled())

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down LabelPilot services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the job dispatcher, allowing in-flight jobs to finish.
	a.dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("LabelPilot stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("LabelPilot stopped successfully")
	return nil
}
