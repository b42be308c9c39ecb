package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy of a generated API key. 32 random bytes
// encode to a 43-character URL-safe string.
const tokenBytes = 32

// generateToken produces a cryptographically unpredictable, URL-safe
// API key. Tokens are generated server-side only and never derived
// from caller input.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
