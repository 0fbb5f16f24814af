// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/labelpilot/labelpilot/internal/app"
	"github.com/labelpilot/labelpilot/internal/catalog"
	"github.com/labelpilot/labelpilot/internal/config"
	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/db"
	"github.com/labelpilot/labelpilot/internal/engine"
	ghclient "github.com/labelpilot/labelpilot/internal/github"
	"github.com/labelpilot/labelpilot/internal/jobs"
	"github.com/labelpilot/labelpilot/internal/logger"
	"github.com/labelpilot/labelpilot/internal/policy"
	"github.com/labelpilot/labelpilot/internal/server"
	"github.com/labelpilot/labelpilot/internal/store"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	loggerConfig := cfg.Logging
	var logWriter io.Writer
	switch cfg.Logging.Output {
	case "stderr":
		logWriter = os.Stderr
	case "file":
		f, _ := os.OpenFile("labelpilot.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		logWriter = f
	default:
		logWriter = os.Stdout
	}
	slogLogger := logger.NewLogger(loggerConfig, logWriter)

	// Automation policy
	pol, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load automation policy: %w", err)
	}

	// Repository catalog: Postgres when configured, in-memory otherwise
	cat, catalogCleanup := provideCatalogGen(cfg, slogLogger)

	// In-memory state
	statuses := store.NewStatusStore()
	creds := store.NewCredentialStore()
	secrets := store.NewSecretStore()

	// Automation engine (nil when unconfigured, jobs stay pending)
	var eng engine.Engine
	if cfg.Engine.Enabled() {
		eng = engine.NewOpenAIEngine(cfg.Engine.OpenAIAPIKey, cfg.Engine.Model, slogLogger)
	} else {
		slogLogger.Warn("OPENAI_API_KEY not set, automation engine disabled")
	}

	// Job pipeline
	labelJob := jobs.NewLabelJob(eng, statuses, creds, pol, slogLogger)
	dispatcher := jobs.NewDispatcher(labelJob, statuses, cfg.MaxWorkers, cfg.QueueSize, slogLogger)

	// GitHub integration
	oauth := ghclient.NewOAuth(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.RedirectURL, slogLogger)
	clients := ghclient.ClientFactory(func(ctx context.Context, token string) ghclient.Client {
		return ghclient.NewTokenClient(ctx, token, slogLogger)
	})
	verifier := ghclient.NewVerifier(creds, oauth, clients, slogLogger)

	// HTTP server
	deps := &server.Deps{
		Cfg:        cfg,
		Statuses:   statuses,
		Creds:      creds,
		Secrets:    secrets,
		Catalog:    cat,
		Dispatcher: dispatcher,
		Engine:     eng,
		OAuth:      oauth,
		Verifier:   verifier,
		Clients:    clients,
		Resolver:   core.OwnerLoginResolver{},
		Policy:     pol,
		Logger:     slogLogger,
	}
	httpServer := server.NewServer(ctx, deps)

	application := app.NewApp(ctx, cfg, httpServer, dispatcher, slogLogger)
	return application, catalogCleanup, nil
}

// provideCatalogGen connects the Postgres catalog when database settings are
// present, falling back to the in-memory store when they are absent or the
// connection fails.
func provideCatalogGen(cfg *config.Config, slogLogger *slog.Logger) (catalog.Store, func()) {
	if !cfg.Database.Enabled() {
		slogLogger.Warn("no database configured, repository catalog runs in memory")
		return catalog.NewMemoryStore(), func() {}
	}

	conn, cleanup, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		slogLogger.Warn("database unreachable, repository catalog runs in memory", "error", err)
		return catalog.NewMemoryStore(), func() {}
	}
	return catalog.NewPostgresStore(conn.DB), cleanup
}
