package reference

import (
	"sort"
	"strings"
)

// Identity is the canonical key of a cited work. Two raw reference strings
// that normalize to the same Identity are the same work.
type Identity string

const (
	// ReferenceSeparator separates references within one reference list.
	ReferenceSeparator = ";"
	// FieldSeparator separates fields within one reference.
	FieldSeparator = ","
)

// Normalize parses a raw reference list into the sorted set of distinct
// identities it cites.
//
// Each non-empty segment becomes:
//   - "Author (Year)" when it has at least two comma-separated fields
//     ("Smith J, 2020, Nature" → "Smith J (2020)")
//   - the trimmed segment verbatim otherwise (bare titles, DOIs, free text)
//
// A comma inside a title yields a wrong but deterministic identity. Parsing
// never fails.
func Normalize(raw string) []Identity {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[Identity]bool)
	var ids []Identity
	for _, segment := range strings.Split(raw, ReferenceSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		id := NormalizeSegment(segment)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NormalizeSegment derives the identity of a single reference segment.
func NormalizeSegment(segment string) Identity {
	segment = strings.TrimSpace(segment)
	parts := strings.Split(segment, FieldSeparator)
	if len(parts) >= 2 {
		// Trimmed again so an empty author field cannot leave a leading space.
		return Identity(strings.TrimSpace(strings.TrimSpace(parts[0]) + " (" + strings.TrimSpace(parts[1]) + ")"))
	}
	return Identity(segment)
}

// Strings converts identities to plain strings.
func Strings(ids []Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
