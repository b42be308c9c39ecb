package api

import (
	"time"

	"github.com/phrazzld/vox-api/internal/service/auth"
)

// SubmitResponse is the body returned when a recognition job is accepted.
type SubmitResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// StatusResponse reports the current state of one job. Result and Error
// are populated only in their respective terminal states.
type StatusResponse struct {
	TaskID      string     `json:"task_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsFinal     bool       `json:"is_final"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// CreateKeyRequest is the admin request body for minting a credential.
type CreateKeyRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// CreateKeyResponse carries the freshly minted key. This is the only
// place the full token is ever returned.
type CreateKeyResponse struct {
	APIKey  string `json:"api_key"`
	IsAdmin bool   `json:"is_admin"`
}

// ListKeysResponse wraps the redacted credential listing.
type ListKeysResponse struct {
	Keys []auth.CredentialSummary `json:"keys"`
}

// ToggleKeyRequest enables or disables an existing credential.
type ToggleKeyRequest struct {
	Key    string `json:"key" validate:"required"`
	Active *bool  `json:"active" validate:"required"`
}

// ToggleKeyResponse confirms the new activation state.
type ToggleKeyResponse struct {
	Prefix   string `json:"prefix"`
	IsActive bool   `json:"is_active"`
}

// HealthResponse is the unauthenticated liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}
