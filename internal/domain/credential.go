package domain

import (
	"fmt"
	"time"
)

// Common validation errors for Credential
var (
	ErrEmptyToken = fmt.Errorf("%w: credential token cannot be empty", ErrValidation)
)

// Usage tracks how much work has been performed under a credential.
// Counters only ever grow; a process restart never resets them because
// the whole block is persisted with the credential.
type Usage struct {
	// TotalRequests counts every authenticated request made with the key.
	TotalRequests int64 `json:"total_requests"`

	// LastUsed is the time of the most recent authenticated request,
	// nil for a key that has never been used.
	LastUsed *time.Time `json:"last_used,omitempty"`

	// TotalProcessingSeconds accumulates recognition wall-clock time
	// charged to the key, in seconds. Failed jobs are charged too:
	// the compute was consumed either way.
	TotalProcessingSeconds float64 `json:"total_processing_time"`
}

// Credential is an opaque bearer token authorizing API access.
// The token itself is the map key in the persisted snapshot, so it
// is not serialized as part of this struct.
type Credential struct {
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	Usage     Usage     `json:"usage"`
}

// NewCredential creates an active credential with zeroed usage.
func NewCredential(token string, isAdmin bool) (*Credential, error) {
	cred := &Credential{
		Token:     token,
		CreatedAt: time.Now().UTC(),
		IsAdmin:   isAdmin,
		IsActive:  true,
	}

	if err := cred.Validate(); err != nil {
		return nil, err
	}

	return cred, nil
}

// Validate checks if the Credential has valid data.
func (c *Credential) Validate() error {
	if c.Token == "" {
		return NewValidationError("token", "cannot be empty", ErrEmptyToken)
	}
	return nil
}

// MarkUsed bumps the request counter and stamps the last-used time.
func (c *Credential) MarkUsed(now time.Time) {
	c.Usage.TotalRequests++
	used := now.UTC()
	c.Usage.LastUsed = &used
}

// ChargeProcessing accumulates recognition time into the usage block.
func (c *Credential) ChargeProcessing(elapsed time.Duration) {
	c.Usage.TotalProcessingSeconds += elapsed.Seconds()
}

// RedactToken shortens a token to a first-5/last-5 display form so key
// listings never expose a usable secret. Short tokens are fully masked.
func RedactToken(token string) string {
	if len(token) <= 10 {
		return "*****"
	}
	return token[:5] + "..." + token[len(token)-5:]
}
