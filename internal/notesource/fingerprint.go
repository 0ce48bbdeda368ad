package notesource

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize cleans note text for fingerprinting. It trims whitespace,
// lowercases, and normalizes line endings so trivially reformatted notes
// collapse to the same fingerprint.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = strings.TrimSpace(t)
	t = strings.ReplaceAll(t, "\r\n", "\n")
	return t
}

// Fingerprint returns the SHA-256 of the normalized note text as a hex
// string. Imports use it to skip notes whose content is already stored.
func Fingerprint(text string) string {
	normalized := Normalize(text)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
