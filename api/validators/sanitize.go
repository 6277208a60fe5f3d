package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims surrounding space, folds internal runs of whitespace
// to one space and truncates to maxLen runes (0 means no limit).
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxLen]))
}
