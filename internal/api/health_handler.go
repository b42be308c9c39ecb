package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/vox-api/internal/api/shared"
)

// HealthHandler answers unauthenticated liveness checks.
type HealthHandler struct {
	modelName string
}

// NewHealthHandler creates a HealthHandler reporting the given model name.
func NewHealthHandler(modelName string) *HealthHandler {
	return &HealthHandler{modelName: modelName}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Model:     h.modelName,
		Timestamp: time.Now().UTC(),
	})
}
