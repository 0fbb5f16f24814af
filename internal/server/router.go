package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labelpilot/labelpilot/internal/catalog"
	"github.com/labelpilot/labelpilot/internal/config"
	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/engine"
	ghclient "github.com/labelpilot/labelpilot/internal/github"
	"github.com/labelpilot/labelpilot/internal/policy"
	"github.com/labelpilot/labelpilot/internal/server/handler"
	"github.com/labelpilot/labelpilot/internal/store"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Cfg        *config.Config
	Statuses   *store.StatusStore
	Creds      *store.CredentialStore
	Secrets    *store.SecretStore
	Catalog    catalog.Store
	Dispatcher core.JobDispatcher
	Engine     engine.Engine
	OAuth      *ghclient.OAuth
	Verifier   *ghclient.Verifier
	Clients    ghclient.ClientFactory
	Resolver   core.UserResolver
	Policy     *policy.Policy
	Logger     *slog.Logger
}

// NewRouter creates and configures a new HTTP router with middleware and the
// application routes.
func NewRouter(d *Deps) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	engineAvailable := d.Engine != nil

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	infoHandler := handler.NewInfoHandler(engineAvailable)
	r.Get("/", infoHandler.Handle)

	webhookHandler := handler.NewWebhookHandler(d.Statuses, d.Dispatcher, d.Resolver, engineAvailable, d.Logger)
	r.Post("/github-webhook", webhookHandler.Handle)

	statusHandler := handler.NewStatusHandler(d.Statuses, d.Dispatcher, engineAvailable, d.Logger)
	r.Route("/automation-status/{owner}/{repo}", func(r chi.Router) {
		r.Get("/", statusHandler.Repository)
		r.Get("/{issue}", statusHandler.Issue)
		r.Post("/{issue}/retry", statusHandler.Retry)
	})

	authHandler := handler.NewAuthHandler(d.OAuth, d.Creds, d.Clients, d.Cfg.FrontendURL, d.Logger)
	r.Route("/auth/github", func(r chi.Router) {
		r.Get("/url", authHandler.AuthURL)
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.CallbackRedirect)
		r.Post("/callback", authHandler.CallbackExchange)
		r.Get("/status/{userID}", authHandler.Status)
	})

	accessHandler := handler.NewAccessHandler(d.Verifier, d.Logger)
	r.Post("/repository/access/verify", accessHandler.Verify)

	reposHandler := handler.NewReposHandler(d.Catalog, d.Creds, d.Clients, d.Logger)
	r.Get("/github/repositories/{userID}", reposHandler.ListGitHub)
	r.Route("/repositories", func(r chi.Router) {
		r.Post("/", reposHandler.Create)
		r.Get("/{userID}", reposHandler.List)
		r.Delete("/{repositoryID}", reposHandler.Delete)
	})

	hooksHandler := handler.NewHooksHandler(d.Creds, d.Secrets, d.Clients, d.Policy, d.Cfg.BackendURL, d.Logger)
	r.Post("/github/webhook/{userID}", hooksHandler.Setup)
	r.Get("/github/webhook/status/{userID}", hooksHandler.Status)

	tasksHandler := handler.NewTasksHandler(d.Engine, d.Policy, d.Logger)
	r.Get("/run-task", tasksHandler.RunDefault)
	r.Post("/run-task", tasksHandler.Run)

	return r
}
