package cooccur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citenet/internal/reference"
)

func twoRecords() []reference.Record {
	return []reference.Record{
		{Title: "T1", References: reference.StringPtr("A, 2020; B, 2021")},
		{Title: "T2", References: reference.StringPtr("A, 2020; C, 2019")},
	}
}

func TestCoCitation_TwoRecords(t *testing.T) {
	counts := CoCitation(twoRecords())

	assert.Equal(t, Counts{
		{A: "A (2020)", B: "B (2021)"}: 1,
		{A: "A (2020)", B: "C (2019)"}: 1,
	}, counts)

	_, ok := counts[Key{A: "B (2021)", B: "C (2019)"}]
	assert.False(t, ok, "B and C are never cited together")
}

func TestCoCitation_AccumulatesAcrossRecords(t *testing.T) {
	records := []reference.Record{
		{Title: "T1", References: reference.StringPtr("A, 2020; B, 2021; C, 2019")},
		{Title: "T2", References: reference.StringPtr("B, 2021; A, 2020")},
		{Title: "T3", References: reference.StringPtr("A, 2020; A, 2020, p. 3; B, 2021")},
		{Title: "T4"},
	}

	counts := CoCitation(records)

	assert.Equal(t, 3, counts[Key{A: "A (2020)", B: "B (2021)"}])
	assert.Equal(t, 1, counts[Key{A: "A (2020)", B: "C (2019)"}])
	assert.Equal(t, 1, counts[Key{A: "B (2021)", B: "C (2019)"}])
	assert.Len(t, counts, 3)
}

func TestCountWithin_DeduplicatesKeys(t *testing.T) {
	records := []reference.Record{{Title: "T1"}}
	key := func(reference.Record) []string { return []string{"y", "x", "y", "x"} }

	counts := CountWithin(records, key)

	assert.Equal(t, Counts{{A: "x", B: "y"}: 1}, counts)
}

func TestCoupling_TwoRecords(t *testing.T) {
	counts := Coupling(twoRecords())

	assert.Equal(t, Counts{{A: "T1", B: "T2"}: 1}, counts)
}

func TestCoupling_WeightIsIntersectionSize(t *testing.T) {
	records := []reference.Record{
		{Title: "Gamma", References: reference.StringPtr("A, 1; B, 2; C, 3")},
		{Title: "Alpha", References: reference.StringPtr("A, 1; B, 2; D, 4")},
		{Title: "Beta", References: reference.StringPtr("E, 5")},
		{Title: "Delta"},
		{References: reference.StringPtr("A, 1; B, 2; C, 3")},
	}

	counts := Coupling(records)

	require.Len(t, counts, 1)
	assert.Equal(t, 2, counts[Key{A: "Alpha", B: "Gamma"}])
}

func TestCounts_Invariants(t *testing.T) {
	records := []reference.Record{
		{Title: "T1", References: reference.StringPtr("Z, 1; A, 2; M, 3; A, 2")},
		{Title: "T2", References: reference.StringPtr("M, 3; Z, 1; Q")},
		{Title: "T3", References: reference.StringPtr("Q; A, 2; Z, 1")},
	}

	for name, counts := range map[string]Counts{
		"cocitation": CoCitation(records),
		"coupling":   Coupling(records),
	} {
		t.Run(name, func(t *testing.T) {
			seen := make(map[Key]bool)
			for _, p := range counts.Sorted() {
				assert.Less(t, p.A, p.B, "pair must be canonical")
				assert.GreaterOrEqual(t, p.Count, 1)
				assert.False(t, seen[p.Key()], "duplicate pair %v", p.Key())
				seen[p.Key()] = true
			}
		})
	}
}

func TestCounts_Add(t *testing.T) {
	c := make(Counts)
	c.Add("b", "a", 2)
	c.Add("a", "b", 1)
	c.Add("a", "a", 5)
	c.Add("a", "c", 0)

	assert.Equal(t, Counts{{A: "a", B: "b"}: 3}, c)
}

func TestCounts_SortedTieBreak(t *testing.T) {
	c := Counts{
		{A: "b", B: "c"}: 2,
		{A: "a", B: "z"}: 2,
		{A: "a", B: "c"}: 2,
		{A: "x", B: "y"}: 5,
	}

	got := c.Sorted()

	want := []Pair{
		{A: "x", B: "y", Count: 5},
		{A: "a", B: "c", Count: 2},
		{A: "a", B: "z", Count: 2},
		{A: "b", B: "c", Count: 2},
	}
	assert.Equal(t, want, got)
}

func TestIntersectSize(t *testing.T) {
	a := []reference.Identity{"a", "c", "e", "g"}
	b := []reference.Identity{"b", "c", "d", "g", "h"}

	assert.Equal(t, 2, IntersectSize(a, b))
	assert.Equal(t, 0, IntersectSize(a, nil))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("coupling")
	require.NoError(t, err)
	assert.Equal(t, ModeCoupling, m)

	_, err = ParseMode("citation")
	assert.Error(t, err)
}

func TestMode_Count(t *testing.T) {
	records := twoRecords()

	assert.Equal(t, CoCitation(records), ModeCoCitation.Count(records))
	assert.Equal(t, Coupling(records), ModeCoupling.Count(records))
}
