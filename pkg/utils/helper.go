package utils

import (
	"strconv"
	"strings"
)

// ParseInt converts string to a positive int, falling back to defaultValue
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseFloat parses a coordinate-like query value.
func ParseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// MaskToken keeps the first n characters of a secret for display.
func MaskToken(token string, n int) string {
	if token == "" {
		return ""
	}
	if len(token) <= n {
		return token + "..."
	}
	return token[:n] + "..."
}
