package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labelpilot/labelpilot/internal/engine"
	"github.com/labelpilot/labelpilot/internal/policy"
)

// TasksHandler runs ad-hoc tasks on the automation engine, outside the
// webhook-driven job lifecycle.
type TasksHandler struct {
	engine engine.Engine
	pol    *policy.Policy
	logger *slog.Logger
}

// NewTasksHandler creates a TasksHandler.
func NewTasksHandler(eng engine.Engine, pol *policy.Policy, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{engine: eng, pol: pol, logger: logger}
}

// RunDefault executes the configured default task.
func (h *TasksHandler) RunDefault(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.pol.DefaultTask)
}

type runTaskRequest struct {
	Task string `json:"task"`
}

// Run executes the task given in the request body.
func (h *TasksHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Task == "" {
		writeError(w, http.StatusBadRequest, "task is required")
		return
	}
	h.run(w, r, req.Task)
}

func (h *TasksHandler) run(w http.ResponseWriter, r *http.Request, task string) {
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "Automation engine is not configured")
		return
	}

	handle, err := h.engine.Run(r.Context(), task)
	if err != nil {
		h.logger.Error("manual task failed", "error", err)
		writeError(w, http.StatusBadGateway, engine.ClassifyMessage(err.Error()))
		return
	}

	h.logger.Info("manual task completed", "task_id", handle.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task executed",
		"task_id": handle.ID,
		"outputs": handle.Outputs,
	})
}
