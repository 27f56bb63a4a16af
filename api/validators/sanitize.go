package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims surrounding whitespace and caps the value at
// maxLen runes. Form values arrive in Portuguese and Norwegian, so the
// cut has to land on a rune boundary, not a byte offset. Control
// characters are dropped; newlines inside topics are kept as spaces.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	trimmed := strings.TrimSpace(cleaned)
	if maxLen > 0 {
		runes := []rune(trimmed)
		if len(runes) > maxLen {
			trimmed = string(runes[:maxLen])
		}
	}
	return trimmed
}
