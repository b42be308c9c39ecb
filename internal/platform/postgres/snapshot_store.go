// Package postgres provides a PostgreSQL-backed credential snapshot store.
// The snapshot keeps the same read-all/write-all contract as the file
// backend: the whole keyring serializes into a single JSONB row.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Register the pgx stdlib driver under the name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/store"
)

// SnapshotStore implements store.CredentialSnapshotStore over a
// single-row JSONB table.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a PostgreSQL snapshot store. The database
// connection is initialized and managed by the caller.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Ensure SnapshotStore implements the snapshot store interface
var _ store.CredentialSnapshotStore = (*SnapshotStore)(nil)

// LoadAll reads the snapshot row. A database with no snapshot yet
// returns an empty keyring.
func (s *SnapshotStore) LoadAll(ctx context.Context) (map[string]*domain.Credential, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM credential_snapshot WHERE id = 1`,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make(map[string]*domain.Credential), nil
		}
		return nil, fmt.Errorf("failed to query credential snapshot: %w", err)
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

// SaveAll upserts the snapshot row, replacing the previous keyring.
func (s *SnapshotStore) SaveAll(ctx context.Context, creds map[string]*domain.Credential) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credential snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO credential_snapshot (id, data, updated_at)
		 VALUES (1, $1, now())
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		data,
	)
	if err != nil {
		return fmt.Errorf("failed to write credential snapshot: %w", err)
	}
	return nil
}
