// Package sets provides helpers for string slices that behave as sets.
package sets

import (
	"strings"
)

// Normalize trims, lowercases and removes duplicate or empty members.
// Order of first appearance is preserved.
//
// Example:
//
//	Normalize([]string{"  CPR ", "first_aid", "cpr", ""})
//	// Returns: []string{"cpr", "first_aid"}
func Normalize(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		member := strings.ToLower(strings.TrimSpace(v))
		if member == "" {
			continue
		}
		if _, ok := seen[member]; !ok {
			seen[member] = struct{}{}
			result = append(result, member)
		}
	}

	return result
}

// Contains reports whether values holds member.
func Contains(values []string, member string) bool {
	for _, v := range values {
		if v == member {
			return true
		}
	}
	return false
}

// Intersect returns the members of candidates that also appear in values,
// in candidates order.
func Intersect(candidates, values []string) []string {
	var result []string
	for _, c := range candidates {
		if Contains(values, c) {
			result = append(result, c)
		}
	}
	return result
}
