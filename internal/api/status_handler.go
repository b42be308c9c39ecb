package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/vox-api/internal/api/shared"
	"github.com/phrazzld/vox-api/internal/task"
)

// StatusHandler serves job status lookups.
type StatusHandler struct {
	registry *task.Registry
	logger   *slog.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(registry *task.Registry, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		registry: registry,
		logger:   logger.With("component", "status_handler"),
	}
}

// GetStatus handles GET /api/status/{task_id} requests. A swept record
// answers exactly like one that never existed.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "task_id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	job, err := h.registry.Get(id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		TaskID:      job.ID.String(),
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
		IsFinal:     job.IsFinal,
		Result:      job.Result,
		Error:       job.Error,
	})
}
