// Package token generates and fingerprints opaque refresh tokens. Only the
// fingerprint is stored; a database leak never exposes usable credentials.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// NewOpaque returns a URL-safe random token of the given byte length.
func NewOpaque(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Fingerprint returns the hex SHA-256 of a raw token, the form in which
// tokens are persisted and looked up.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
