package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NewOpaque generates a cryptographically random 64-character hex token.
// The opaque value is sent to the user; only its digest is stored.
func NewOpaque() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Digest returns the hex-encoded SHA-256 of an opaque token value, the only
// form ever written to storage.
func Digest(opaque string) string {
	sum := sha256.Sum256([]byte(opaque))
	return hex.EncodeToString(sum[:])
}
