package store

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns "<prefix>_" followed by n lowercase hex characters taken from a
// random UUID. n is capped at 32.
func NewID(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return prefix + "_" + hex[:n]
}
