package job

import (
	"math/rand"
	"strings"
)

const (
	maxTitleLength = 50
	suffixLength   = 6
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	fallbackTitle  = "video"
)

// Sanitize replaces every character outside [A-Za-z0-9_-] with an underscore.
func Sanitize(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, raw)
}

// RandomSuffix returns n characters drawn from the lowercase-alphanumeric
// alphabet. Collision avoidance only, no cryptographic guarantee.
func RandomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// ArtifactID derives a filesystem-safe artifact identifier from untrusted
// title text. Uniqueness is probabilistic via the random suffix.
func ArtifactID(title string) string {
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}
	safe := Sanitize(title)
	if len(safe) > maxTitleLength {
		safe = safe[:maxTitleLength]
	}
	return safe + "_" + RandomSuffix(suffixLength)
}
