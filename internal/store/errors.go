package store

import "errors"

// Common store errors used across snapshot store implementations.
var (
	// ErrSnapshotLoad is returned when the credential snapshot cannot be
	// read from its backend. A missing snapshot is not an error: backends
	// return an empty map so that first-run bootstrap can proceed.
	ErrSnapshotLoad = errors.New("failed to load credential snapshot")

	// ErrSnapshotSave is returned when the credential snapshot cannot be
	// written through to its backend. Admin mutations propagate this to
	// the caller; usage accounting logs and swallows it.
	ErrSnapshotSave = errors.New("failed to save credential snapshot")
)
