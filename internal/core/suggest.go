package core

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how different a key may be from a column and
// still be suggested.
const maxSuggestDistance = 3

// HasColumn reports whether any header has Value key.
func HasColumn(headers []ColumnHeader, key string) bool {
	for i := range headers {
		if headers[i].Value == key {
			return true
		}
	}
	return false
}

// SuggestColumn returns the header key closest to key, compared
// case-insensitively against both Value and Text, or "" when nothing is
// within maxSuggestDistance edits.
func SuggestColumn(headers []ColumnHeader, key string) string {
	key = strings.ToLower(key)
	best, bestDist := "", maxSuggestDistance+1
	for i := range headers {
		for _, candidate := range []string{headers[i].Value, headers[i].Text} {
			d := levenshtein.ComputeDistance(key, strings.ToLower(candidate))
			if d < bestDist {
				best, bestDist = headers[i].Value, d
			}
		}
	}
	return best
}

// CheckColumn returns an UnknownColumnError when key names no header.
func CheckColumn(headers []ColumnHeader, key string) error {
	if HasColumn(headers, key) {
		return nil
	}
	return &UnknownColumnError{Key: key, Suggestion: SuggestColumn(headers, key)}
}
