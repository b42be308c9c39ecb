// Package store defines persistence seams for the credential keyring.
package store

import (
	"context"

	"github.com/phrazzld/vox-api/internal/domain"
)

// CredentialSnapshotStore persists the whole token -> credential mapping
// in one shot. Read-all/write-all is sufficient for the keyring: mutations
// are rare relative to job volume and always happen under the keyring's
// lock, so the backend never sees concurrent writers.
//
// The serialized form must stay forward-compatible: unknown fields in a
// stored credential are ignored on load, never rejected.
type CredentialSnapshotStore interface {
	// LoadAll reads the full snapshot. A backend with no snapshot yet
	// returns an empty, non-nil map.
	LoadAll(ctx context.Context) (map[string]*domain.Credential, error)

	// SaveAll writes the full snapshot through to durable storage
	// before returning.
	SaveAll(ctx context.Context, creds map[string]*domain.Credential) error
}
