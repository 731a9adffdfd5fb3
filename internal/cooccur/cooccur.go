// Package cooccur counts unordered co-occurrence pairs over bibliographic
// records: co-citation (two works cited by the same record) and
// bibliographic coupling (two records citing the same work).
//
// Coupling compares every pair of records and is O(n²) in the number of
// records. That is fine for corpora of up to a few thousand records and is
// the scalability ceiling of the whole pipeline.
package cooccur

import (
	"sort"

	"github.com/matsen/citenet/internal/reference"
)

// Key is a canonical unordered pair: A < B always holds.
type Key struct {
	A string
	B string
}

// NewKey canonicalizes an unordered pair. It returns false for self-pairs.
func NewKey(x, y string) (Key, bool) {
	switch {
	case x == y:
		return Key{}, false
	case x < y:
		return Key{A: x, B: y}, true
	default:
		return Key{A: y, B: x}, true
	}
}

// Less orders keys by A, then B.
func (k Key) Less(o Key) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	return k.B < o.B
}

// Pair is a counted canonical pair.
type Pair struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// Key returns the canonical key of the pair.
func (p Pair) Key() Key {
	return Key{A: p.A, B: p.B}
}

// Counts maps canonical pairs to positive counts.
type Counts map[Key]int

// Add increments the count of the unordered pair (x, y). Self-pairs are ignored.
func (c Counts) Add(x, y string, n int) {
	if n <= 0 {
		return
	}
	if k, ok := NewKey(x, y); ok {
		c[k] += n
	}
}

// Sorted returns all pairs by count descending, ties broken by canonical
// pair order. The order is fully deterministic.
func (c Counts) Sorted() []Pair {
	pairs := make([]Pair, 0, len(c))
	for k, n := range c {
		pairs = append(pairs, Pair{A: k.A, B: k.B, Count: n})
	}
	SortPairs(pairs)
	return pairs
}

// SortPairs sorts pairs by count descending, then by (A, B).
func SortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Key().Less(pairs[j].Key())
	})
}

// KeyFunc extracts the set of keys a record contributes to pairing.
type KeyFunc func(reference.Record) []string

// ReferenceKeys is the co-citation key function: the record's distinct
// reference identities.
func ReferenceKeys(r reference.Record) []string {
	return reference.Strings(r.Identities())
}

// CountWithin counts, for every record, each unordered pair of distinct keys
// returned by key. A pair's count is the number of records containing both.
// Keys are deduplicated per record before pairing.
func CountWithin(records []reference.Record, key KeyFunc) Counts {
	counts := make(Counts)
	for _, r := range records {
		keys := distinctSorted(key(r))
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				counts[Key{A: keys[i], B: keys[j]}]++
			}
		}
	}
	return counts
}

// CoCitation counts co-cited reference pairs.
func CoCitation(records []reference.Record) Counts {
	return CountWithin(records, ReferenceKeys)
}

// Coupling counts shared references between every pair of distinct records,
// keyed by record title. Each record pair produces at most one entry, whose
// weight is the size of the intersection of their identity sets.
//
// Records without a title or without references are skipped. If two record
// pairs collapse onto the same title pair, the larger weight is kept.
func Coupling(records []reference.Record) Counts {
	type entry struct {
		title string
		ids   []reference.Identity
	}

	entries := make([]entry, 0, len(records))
	for _, r := range records {
		if r.Title == "" || !r.HasReferences() {
			continue
		}
		entries = append(entries, entry{title: r.Title, ids: r.Identities()})
	}

	counts := make(Counts)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			shared := IntersectSize(entries[i].ids, entries[j].ids)
			if shared == 0 {
				continue
			}
			k, ok := NewKey(entries[i].title, entries[j].title)
			if !ok {
				continue
			}
			if shared > counts[k] {
				counts[k] = shared
			}
		}
	}
	return counts
}

// IntersectSize returns |a ∩ b| for two sorted, distinct identity slices.
func IntersectSize(a, b []reference.Identity) int {
	n := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// distinctSorted returns the sorted distinct values of keys.
func distinctSorted(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
