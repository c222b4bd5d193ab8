package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the request signature header value: the hex-encoded
// SHA-256 digest of the shared API secret concatenated with the current
// session token.
func Signature(secret, token string) string {
	sum := sha256.Sum256([]byte(secret + token))
	return hex.EncodeToString(sum[:])
}
