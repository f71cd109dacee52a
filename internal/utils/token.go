package utils // package utils provides helpers for password hashing and session tokens

import (
	"crypto/rand"   // secure random number generation
	"encoding/hex"  // hex encoding for token strings
)

// NewSessionToken returns a fresh opaque bearer token: 32 bytes of
// cryptographically secure random data, hex encoded (64 characters). The
// token carries no structure or claims; it is only meaningful as a key into
// the sessions table.
func NewSessionToken() (string, error) {
	return randomHex(32)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
