package utils

import "strings"

// TruncateForLog shortens s to at most limit runes, appending an ellipsis when
// something was cut. Surrounding whitespace is dropped first.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// JoinForLog joins items with ", " and truncates the result.
func JoinForLog(items []string, limit int) string {
	return TruncateForLog(strings.Join(items, ", "), limit)
}
