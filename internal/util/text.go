package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CleanText collapses all runs of whitespace (including non-breaking
// spaces) into single spaces and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// HashString returns a short stable hex digest, used for fallback listing
// IDs and feed freshness tokens.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
