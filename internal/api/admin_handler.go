package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/vox-api/internal/api/shared"
	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/service/auth"
)

// AdminHandler serves credential management endpoints. Every route it
// owns sits behind the admin variant of the auth middleware.
type AdminHandler struct {
	credentials *auth.CredentialStore
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(credentials *auth.CredentialStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		credentials: credentials,
		logger:      logger.With("component", "admin_handler"),
	}
}

// CreateKey handles POST /api/admin/keys requests. The response is the
// only time the full token leaves the server.
func (h *AdminHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	var req CreateKeyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := h.credentials.Create(r.Context(), req.IsAdmin)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("api key created",
		"prefix", domain.RedactToken(token),
		"is_admin", req.IsAdmin)

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateKeyResponse{
		APIKey:  token,
		IsAdmin: req.IsAdmin,
	})
}

// ListKeys handles GET /api/admin/keys requests. Tokens come back
// redacted to their prefix form.
func (h *AdminHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ListKeysResponse{
		Keys: h.credentials.List(),
	})
}

// ToggleKey handles POST /api/admin/keys/toggle requests, enabling or
// disabling an existing key. Disabling takes effect on the key's next
// request.
func (h *AdminHandler) ToggleKey(w http.ResponseWriter, r *http.Request) {
	var req ToggleKeyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.credentials.Toggle(r.Context(), req.Key, *req.Active); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("api key toggled",
		"prefix", domain.RedactToken(req.Key),
		"active", *req.Active)

	shared.RespondWithJSON(w, r, http.StatusOK, ToggleKeyResponse{
		Prefix:   domain.RedactToken(req.Key),
		IsActive: *req.Active,
	})
}
