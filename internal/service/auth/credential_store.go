package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/redact"
	"github.com/phrazzld/vox-api/internal/store"
)

// CredentialStore owns the token -> credential keyring. Every read and
// write goes through its single mutex, and mutations are written through
// to the snapshot backend while the lock is still held. That makes the
// lock's hold time include persistence latency, which is acceptable only
// because credential mutation is rare relative to job volume.
//
// Request-path persistence failures (usage counters) are logged and
// swallowed; admin mutations propagate them.
type CredentialStore struct {
	mu        sync.Mutex
	creds     map[string]*domain.Credential
	snapshots store.CredentialSnapshotStore
	logger    *slog.Logger
	now       func() time.Time
}

// CredentialSummary is the redacted view of a credential returned by
// List. The full token value appears exactly once, from Create.
type CredentialSummary struct {
	Prefix    string       `json:"prefix"`
	CreatedAt time.Time    `json:"created_at"`
	IsAdmin   bool         `json:"is_admin"`
	IsActive  bool         `json:"is_active"`
	Usage     domain.Usage `json:"usage"`
}

// NewCredentialStore loads the snapshot from the backend and builds the
// in-memory keyring over it.
func NewCredentialStore(
	ctx context.Context,
	snapshots store.CredentialSnapshotStore,
	logger *slog.Logger,
) (*CredentialStore, error) {
	creds, err := snapshots.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrSnapshotLoad, err)
	}
	if creds == nil {
		creds = make(map[string]*domain.Credential)
	}

	s := &CredentialStore{
		creds:     creds,
		snapshots: snapshots,
		logger:    logger.With("component", "credential_store"),
		now:       time.Now,
	}
	return s, nil
}

// Bootstrap creates the first-run admin credential when the keyring is
// empty. It returns the full token and true when a key was created; the
// token is never shown again after this call.
func (s *CredentialStore) Bootstrap(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.creds) > 0 {
		return "", false, nil
	}

	token, err := s.insertLocked(ctx, true)
	if err != nil {
		return "", false, err
	}

	s.logger.Info("bootstrap admin API key created",
		"prefix", domain.RedactToken(token))
	return token, true, nil
}

// Validate authenticates a token. On success it increments the usage
// counters, stamps last-used, persists the keyring, and returns a copy
// of the credential.
func (s *CredentialStore) Validate(ctx context.Context, token string) (domain.Credential, error) {
	return s.validate(ctx, token, false)
}

// RequireAdmin behaves like Validate and additionally rejects keys
// without the admin flag.
func (s *CredentialStore) RequireAdmin(ctx context.Context, token string) (domain.Credential, error) {
	return s.validate(ctx, token, true)
}

func (s *CredentialStore) validate(
	ctx context.Context,
	token string,
	wantAdmin bool,
) (domain.Credential, error) {
	if token == "" {
		return domain.Credential{}, ErrMissingKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[token]
	if !ok || !cred.IsActive {
		return domain.Credential{}, ErrInvalidOrDisabledKey
	}

	if wantAdmin && !cred.IsAdmin {
		return domain.Credential{}, ErrNotAdmin
	}

	cred.MarkUsed(s.now())
	s.persistLocked(ctx, "validate")

	return *cred, nil
}

// Create mints a new credential and returns the full token. Generation
// retries on the astronomically unlikely collision with a live key.
func (s *CredentialStore) Create(ctx context.Context, isAdmin bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(ctx, isAdmin)
}

// insertLocked generates a token, inserts the credential, and persists.
// Callers must hold the lock.
func (s *CredentialStore) insertLocked(ctx context.Context, isAdmin bool) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	for _, exists := s.creds[token]; exists; _, exists = s.creds[token] {
		if token, err = generateToken(); err != nil {
			return "", err
		}
	}

	cred, err := domain.NewCredential(token, isAdmin)
	if err != nil {
		return "", err
	}
	s.creds[token] = cred

	if err := s.snapshots.SaveAll(ctx, s.creds); err != nil {
		// Roll the insert back so the caller never receives a token
		// that was not durably recorded.
		delete(s.creds, token)
		return "", fmt.Errorf("%w: %v", store.ErrSnapshotSave, err)
	}

	return token, nil
}

// Toggle flips a credential's active flag. Revocation is a toggle, not a
// deletion: usage history survives and the key can be re-enabled.
func (s *CredentialStore) Toggle(ctx context.Context, token string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[token]
	if !ok {
		return ErrKeyNotFound
	}

	previous := cred.IsActive
	cred.IsActive = active

	if err := s.snapshots.SaveAll(ctx, s.creds); err != nil {
		cred.IsActive = previous
		return fmt.Errorf("%w: %v", store.ErrSnapshotSave, err)
	}
	return nil
}

// RecordUsage charges recognition time to a credential, best effort.
// Unknown tokens are ignored and persistence failures are swallowed so
// usage accounting can never fail or block a job completion.
func (s *CredentialStore) RecordUsage(ctx context.Context, token string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[token]
	if !ok {
		return
	}

	cred.ChargeProcessing(elapsed)
	s.persistLocked(ctx, "record_usage")
}

// List returns all credentials redacted to a short prefix/suffix form,
// ordered by creation time. Usage stats are included in full.
func (s *CredentialStore) List() []CredentialSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CredentialSummary, 0, len(s.creds))
	for token, cred := range s.creds {
		out = append(out, CredentialSummary{
			Prefix:    domain.RedactToken(token),
			CreatedAt: cred.CreatedAt,
			IsAdmin:   cred.IsAdmin,
			IsActive:  cred.IsActive,
			Usage:     cred.Usage,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// persistLocked writes the snapshot through, logging instead of failing.
// Callers must hold the lock.
func (s *CredentialStore) persistLocked(ctx context.Context, op string) {
	if err := s.snapshots.SaveAll(ctx, s.creds); err != nil {
		s.logger.Error("failed to persist credential snapshot",
			"operation", op,
			"error", redact.Error(err))
	}
}
