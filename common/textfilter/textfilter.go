// Package textfilter implements the client-side list filtering used by the
// check-in, attendee, and audit-log screens: exact categorical match plus
// case-insensitive substring search over designated fields. The substring
// semantics are contractual; do not upgrade to fuzzy matching.
package textfilter

import "strings"

// All is the sentinel categorical value meaning "no filter"
const All = "all"

// MatchesQuery reports whether the lower-cased query is a substring of at
// least one of the given fields. An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether value passes the categorical filter.
// Empty or "all" means no filter is applied.
func MatchesCategory(filter, value string) bool {
	if filter == "" || filter == All {
		return true
	}
	return filter == value
}

// Filter returns the subsequence of items passing both predicates. fields
// extracts the free-text searchable fields of an item; category extracts
// the categorical value (may be nil when the screen has no category
// filter).
func Filter[T any](items []T, query, categoryFilter string, fields func(T) []string, category func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if category != nil && !MatchesCategory(categoryFilter, category(item)) {
			continue
		}
		if !MatchesQuery(query, fields(item)...) {
			continue
		}
		out = append(out, item)
	}
	return out
}
