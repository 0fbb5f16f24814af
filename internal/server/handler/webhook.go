package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/store"
)

// WebhookHandler processes incoming webhooks from GitHub. It always responds
// 200: job failures are never surfaced synchronously, only through the status
// API.
type WebhookHandler struct {
	statuses        *store.StatusStore
	dispatcher      core.JobDispatcher
	resolver        core.UserResolver
	engineAvailable bool
	logger          *slog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(statuses *store.StatusStore, dispatcher core.JobDispatcher, resolver core.UserResolver, engineAvailable bool, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		statuses:        statuses,
		dispatcher:      dispatcher,
		resolver:        resolver,
		engineAvailable: engineAvailable,
		logger:          logger,
	}
}

// Handle ingests a GitHub webhook delivery. Issue-opened events start an
// automation job; everything else is acknowledged and dropped.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var payload github.IssuesEvent
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("could not parse webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	event, err := core.EventFromIssues(&payload)
	if err != nil {
		h.logger.Debug("ignoring webhook delivery", "reason", err.Error())
		writeJSON(w, http.StatusOK, map[string]any{"message": "GitHub webhook received"})
		return
	}

	key := event.Key()
	userID := h.resolver.ResolveUser(event)

	// The record exists and is pending before the delivery is acknowledged,
	// so an immediate status poll observes the accepted job.
	h.statuses.Put(key, core.NewPendingRecord())

	if !h.engineAvailable {
		h.logger.Warn("automation engine not configured, job stays pending", "job", key.String())
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "GitHub webhook received (automation disabled - engine not configured)",
		})
		return
	}

	jobCtx := core.JobContext{
		RepositoryURL: event.RepositoryURL,
		UserID:        userID,
	}
	if err := h.dispatcher.Dispatch(r.Context(), key, jobCtx); err != nil {
		// The delivery is still acknowledged; the record stays pending and
		// can be retried manually.
		h.logger.Warn("could not dispatch automation job", "job", key.String(), "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "GitHub webhook received",
		"automation_status": core.StatusPending,
	})
}
