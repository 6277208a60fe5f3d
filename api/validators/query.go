package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePathIndex reads a non-negative integer path parameter.
func ParsePathIndex(raw, key string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeIndexOutOfRange, "cart line not found").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseSearchQuery returns the raw search text for key. It is not trimmed or
// folded, since matching is a plain substring test; text longer than maxLen
// runes is rejected rather than shortened.
func ParseSearchQuery(r *http.Request, key string, maxLen int) (string, error) {
	value := r.URL.Query().Get(key)
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "search text too long").WithDetails(map[string]any{"field": key, "max": maxLen})
	}
	return value, nil
}
