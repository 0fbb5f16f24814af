//go:build wireinject
// +build wireinject

package wire

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

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

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		store.NewStatusStore,
		store.NewCredentialStore,
		store.NewSecretStore,
		jobs.NewDispatcher,
		jobs.NewLabelJob,
		provideCatalog,
		providePolicy,
		provideEngine,
		provideOAuth,
		provideVerifier,
		provideClientFactory,
		provideResolver,
		provideDeps,
		provideLoggerConfig,
		provideLogWriter,
		provideSlogLogger,
	)
	return &app.App{}, nil, nil
}

// provideCatalog connects the Postgres catalog when database settings are
// present. Without them, or when the connection fails, the in-memory fallback
// keeps the API functional.
func provideCatalog(cfg *config.Config, logger *slog.Logger) (catalog.Store, func(), error) {
	if !cfg.Database.Enabled() {
		logger.Warn("no database configured, repository catalog runs in memory")
		return catalog.NewMemoryStore(), func() {}, nil
	}

	conn, cleanup, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Warn("database unreachable, repository catalog runs in memory", "error", err)
		return catalog.NewMemoryStore(), func() {}, nil
	}
	return catalog.NewPostgresStore(conn.DB), cleanup, nil
}

func provideVerifier(creds *store.CredentialStore, oauth *ghclient.OAuth, clients ghclient.ClientFactory, logger *slog.Logger) *ghclient.Verifier {
	return ghclient.NewVerifier(creds, oauth, clients, logger)
}

func provideDeps(
	cfg *config.Config,
	statuses *store.StatusStore,
	creds *store.CredentialStore,
	secrets *store.SecretStore,
	cat catalog.Store,
	dispatcher core.JobDispatcher,
	eng engine.Engine,
	oauth *ghclient.OAuth,
	verifier *ghclient.Verifier,
	clients ghclient.ClientFactory,
	resolver core.UserResolver,
	pol *policy.Policy,
	logger *slog.Logger,
) *server.Deps {
	return &server.Deps{
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
		Resolver:   resolver,
		Policy:     pol,
		Logger:     logger,
	}
}

func provideEngine(cfg *config.Config, logger *slog.Logger) engine.Engine {
	if !cfg.Engine.Enabled() {
		return nil
	}
	return engine.NewOpenAIEngine(cfg.Engine.OpenAIAPIKey, cfg.Engine.Model, logger)
}

func providePolicy(cfg *config.Config) (*policy.Policy, error) {
	return policy.Load(cfg.PolicyPath)
}

func provideOAuth(cfg *config.Config, logger *slog.Logger) *ghclient.OAuth {
	return ghclient.NewOAuth(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.RedirectURL, logger)
}

func provideClientFactory(logger *slog.Logger) ghclient.ClientFactory {
	return func(ctx context.Context, token string) ghclient.Client {
		return ghclient.NewTokenClient(ctx, token, logger)
	}
}

func provideResolver() core.UserResolver {
	return core.OwnerLoginResolver{}
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	case "file":
		f, _ := os.OpenFile("labelpilot.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		return f
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}
