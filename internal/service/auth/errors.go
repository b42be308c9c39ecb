package auth

import "errors"

// Common authentication service errors
var (
	// ErrMissingKey indicates a request arrived with no API key at all.
	ErrMissingKey = errors.New("API key is missing")

	// ErrInvalidOrDisabledKey indicates the presented API key is unknown
	// or has been toggled inactive. The two cases are deliberately not
	// distinguished to callers.
	ErrInvalidOrDisabledKey = errors.New("invalid or disabled API key")

	// ErrNotAdmin indicates a valid key without the admin flag attempted
	// an admin-only operation.
	ErrNotAdmin = errors.New("admin privileges required")

	// ErrKeyNotFound indicates an admin operation referenced a key that
	// does not exist in the keyring.
	ErrKeyNotFound = errors.New("API key not found")
)
