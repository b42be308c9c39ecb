// Package credfile persists the credential snapshot as a single JSON file
// on disk, the layout the original single-node deployment used. Unknown
// fields in a stored credential are preserved-ignored on load so newer
// builds can read older (or extended) snapshots.
package credfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phrazzld/vox-api/internal/domain"
)

// FileStore is a file-backed CredentialSnapshotStore.
type FileStore struct {
	path string
}

// NewFileStore creates a snapshot store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadAll reads the snapshot from disk. A missing file yields an empty
// keyring so first-run bootstrap can proceed.
func (s *FileStore) LoadAll(ctx context.Context) (map[string]*domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*domain.Credential), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var raw map[string]*domain.Credential
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode credential snapshot: %w", err)
	}

	creds := make(map[string]*domain.Credential, len(raw))
	for token, cred := range raw {
		if cred == nil {
			continue
		}
		cred.Token = token
		creds[token] = cred
	}
	return creds, nil
}

// SaveAll writes the snapshot as indented JSON via a temp-file rename so
// a crash mid-write never leaves a truncated keyring behind. A crash
// between a mutation and this write loses at most that one mutation.
func (s *FileStore) SaveAll(ctx context.Context, creds map[string]*domain.Credential) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace credential snapshot: %w", err)
	}
	return nil
}
