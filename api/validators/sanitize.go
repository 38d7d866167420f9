package validators

import (
	"strings"
	"unicode"
)

// Free-text limits shared by request validation and sanitization.
const (
	MaxNotesLen    = 1000
	MaxReasonLen   = 500
	MaxReceiverLen = 160
)

// SanitizeText trims input, drops control characters other than newlines and
// tabs, and cuts the result to at most maxLen runes. maxLen <= 0 disables the cut.
func SanitizeText(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)
	if maxLen <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxLen]))
}

// SanitizeTextPtr applies SanitizeText to an optional field, keeping nil as nil.
func SanitizeTextPtr(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	cleaned := SanitizeText(*input, maxLen)
	return &cleaned
}
