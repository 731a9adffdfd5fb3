// Package author parses author lists and computes per-author productivity
// metrics over imported records.
package author

import (
	"strings"
)

// Query represents a parsed author filter.
type Query struct {
	First string // First name or initial (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// ParseQuery parses an author filter string into a structured Query.
//
// Supported formats:
//   - "Yu"           → last="Yu" (single word = last name only)
//   - "Timothy Yu"   → first="Timothy", last="Yu" (space-separated = First Last)
//   - "Yu, Timothy"  → first="Timothy", last="Yu" (comma = Last, First)
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if idx := strings.Index(input, ","); idx > 0 {
		return Query{
			First: strings.TrimSpace(input[idx+1:]),
			Last:  strings.TrimSpace(input[:idx]),
		}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Query{Last: parts[0]}
	}
	return Query{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// Matches checks if the query matches an author name as it appears in an
// Authors cell. Exports disagree on name order ("Timothy C Yu", "Yu T.C."),
// so the name is treated as a bag of words.
//
// Matching rules:
//   - Last name: case-insensitive exact match against any word (required)
//   - First name: case-insensitive prefix match of its first word against
//     any other word; a word of at most two letters once dots are removed
//     is read as initials and matches on the first letter
//
// This keeps "Yu" from matching "Yujia Chan".
func (q Query) Matches(name string) bool {
	if q.Last == "" {
		return false
	}
	words := strings.Fields(name)

	lastAt := -1
	for i, w := range words {
		if strings.EqualFold(strings.TrimSuffix(w, "."), q.Last) {
			lastAt = i
			break
		}
	}
	if lastAt < 0 {
		return false
	}
	firstWords := strings.Fields(q.First)
	if len(firstWords) == 0 {
		return true
	}

	first := strings.ToLower(firstWords[0])
	for i, w := range words {
		if i == lastAt {
			continue
		}
		w = strings.ToLower(strings.ReplaceAll(w, ".", ""))
		if w == "" {
			continue
		}
		if strings.HasPrefix(w, first) || (len(w) <= 2 && w[0] == first[0]) {
			return true
		}
	}
	return false
}

// MatchesAny checks if the query matches any name in the list.
func (q Query) MatchesAny(names []string) bool {
	for _, n := range names {
		if q.Matches(n) {
			return true
		}
	}
	return false
}

// AllMatch checks if all queries match at least one name each.
func AllMatch(queries []Query, names []string) bool {
	for _, q := range queries {
		if !q.MatchesAny(names) {
			return false
		}
	}
	return true
}
