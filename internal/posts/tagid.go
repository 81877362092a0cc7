package posts

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeTag canonicalizes tag text: trimmed and lowercased, so "Hiking"
// and "hiking" are the same tag.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TagID is the content-addressed tag identifier: the SHA-256 hex digest of
// the normalized tag text. Identical text always maps to the same id, which
// makes tag inserts race-tolerant under the unique constraint.
func TagID(name string) string {
	sum := sha256.Sum256([]byte(NormalizeTag(name)))
	return hex.EncodeToString(sum[:])
}
