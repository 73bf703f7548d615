package model

import "strings"

// MatchesText reports whether query is a case-insensitive substring of any field.
// An empty query matches everything.
func MatchesText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
