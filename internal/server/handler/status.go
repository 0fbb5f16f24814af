package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/store"
)

// StatusHandler serves automation status queries and the manual retry
// operation.
type StatusHandler struct {
	statuses        *store.StatusStore
	dispatcher      core.JobDispatcher
	engineAvailable bool
	logger          *slog.Logger
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(statuses *store.StatusStore, dispatcher core.JobDispatcher, engineAvailable bool, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		statuses:        statuses,
		dispatcher:      dispatcher,
		engineAvailable: engineAvailable,
		logger:          logger,
	}
}

// repoFullNameFromRequest joins the owner/repo path parameters.
func repoFullNameFromRequest(r *http.Request) string {
	return chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")
}

// Issue returns the record for one issue, or null when no job was ever
// recorded for it.
func (h *StatusHandler) Issue(w http.ResponseWriter, r *http.Request) {
	issue, err := strconv.Atoi(chi.URLParam(r, "issue"))
	if err != nil || issue <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid issue number")
		return
	}

	key := core.JobKey{RepoFullName: repoFullNameFromRequest(r), IssueNumber: issue}
	record, ok := h.statuses.Get(key)

	body := map[string]any{
		"repository":        key.RepoFullName,
		"issue_number":      key.IssueNumber,
		"automation_status": nil,
	}
	if ok {
		body["automation_status"] = record
	}
	writeJSON(w, http.StatusOK, body)
}

// Repository returns the records of every tracked issue in a repository,
// keyed by issue number. An untracked repository yields an empty map, not an
// error.
func (h *StatusHandler) Repository(w http.ResponseWriter, r *http.Request) {
	fullName := repoFullNameFromRequest(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"repository":          fullName,
		"automation_statuses": h.statuses.ListByRepository(fullName),
	})
}

// Retry re-dispatches the automation job for an issue. Unlike the webhook
// path, dispatch failures are surfaced to the caller.
func (h *StatusHandler) Retry(w http.ResponseWriter, r *http.Request) {
	issue, err := strconv.Atoi(chi.URLParam(r, "issue"))
	if err != nil || issue <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid issue number")
		return
	}

	if !h.engineAvailable {
		writeError(w, http.StatusServiceUnavailable, "Automation engine is not configured")
		return
	}

	key := core.JobKey{RepoFullName: repoFullNameFromRequest(r), IssueNumber: issue}
	jobCtx := core.JobContext{
		RepositoryURL: fmt.Sprintf("https://api.github.com/repos/%s", key.RepoFullName),
		UserID:        r.URL.Query().Get("user_id"),
	}

	if err := h.dispatcher.Dispatch(r.Context(), key, jobCtx); err != nil {
		switch {
		case errors.Is(err, core.ErrJobAlreadyRunning):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, core.ErrQueueFull):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			h.logger.Error("retry dispatch failed", "job", key.String(), "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to start automation job")
		}
		return
	}

	h.logger.Info("automation retry accepted", "job", key.String())
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Automation retry initiated",
		"repository":   key.RepoFullName,
		"issue_number": key.IssueNumber,
		"status":       core.StatusPending,
	})
}
