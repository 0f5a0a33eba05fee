package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashToken returns the hex-encoded BLAKE2b-256 digest of a bearer token.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
