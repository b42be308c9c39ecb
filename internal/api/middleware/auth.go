package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/vox-api/internal/api/shared"
	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/platform/logger"
	"github.com/phrazzld/vox-api/internal/platform/metrics"
	"github.com/phrazzld/vox-api/internal/redact"
	"github.com/phrazzld/vox-api/internal/service/auth"
)

// HeaderAPIKey is the header callers present their credential in.
const HeaderAPIKey = "X-API-Key"

// CredentialValidator is the slice of the credential store the
// middleware needs.
type CredentialValidator interface {
	Validate(ctx context.Context, token string) (domain.Credential, error)
	RequireAdmin(ctx context.Context, token string) (domain.Credential, error)
}

// AuthMiddleware resolves the X-API-Key header against the credential
// store and attaches the authenticated credential to the request
// context.
type AuthMiddleware struct {
	credentials CredentialValidator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(credentials CredentialValidator) *AuthMiddleware {
	return &AuthMiddleware{credentials: credentials}
}

// Authenticate validates the API key on every request it wraps.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// RequireAdmin validates the API key and additionally requires the
// admin flag. Non-admin keys get 403.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, wantAdmin bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(HeaderAPIKey)
		if token == "" {
			metrics.AuthRejections.Inc()
			shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
			return
		}

		var (
			cred domain.Credential
			err  error
		)
		if wantAdmin {
			cred, err = m.credentials.RequireAdmin(r.Context(), token)
		} else {
			cred, err = m.credentials.Validate(r.Context(), token)
		}
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidOrDisabledKey):
				metrics.AuthRejections.Inc()
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or disabled API key")
			case errors.Is(err, auth.ErrNotAdmin):
				metrics.AuthRejections.Inc()
				shared.RespondWithError(w, r, http.StatusForbidden, "Admin privileges required")
			default:
				log := logger.FromContextOrDefault(r.Context(), slog.Default())
				log.Error("failed to validate API key", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.CredentialContextKey, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCredential extracts the authenticated credential from the request
// context. Returns the credential and whether one was present.
func GetCredential(r *http.Request) (domain.Credential, bool) {
	cred, ok := r.Context().Value(shared.CredentialContextKey).(domain.Credential)
	return cred, ok
}
