package network

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matsen/citenet/internal/cooccur"
)

func TestBuild_TopKTruncation(t *testing.T) {
	// 150 pairs: counts 1..150 on distinct node pairs, plus ties at the cutoff.
	counts := make(cooccur.Counts)
	for i := 0; i < 150; i++ {
		counts.Add(fmt.Sprintf("a%03d", i), fmt.Sprintf("b%03d", i), i/2+1)
	}

	g1 := Build(counts, 100)
	g2 := Build(counts, 100)

	require.Equal(t, 100, g1.EdgeCount())
	assert.Equal(t, g1.Edges(), g2.Edges(), "builds must be reproducible")
	assert.Equal(t, g1.Nodes(), g2.Nodes())

	want := counts.Sorted()[:100]
	retained := make(map[cooccur.Key]int)
	for _, e := range g1.Edges() {
		retained[cooccur.Key{A: e.Source, B: e.Target}] = e.Weight
	}
	for _, p := range want {
		assert.Equal(t, p.Count, retained[p.Key()], "pair %v should be retained", p.Key())
	}
}

func TestBuild_TieBreakByCanonicalOrder(t *testing.T) {
	counts := cooccur.Counts{
		{A: "c", B: "d"}: 1,
		{A: "a", B: "b"}: 1,
		{A: "b", B: "c"}: 1,
	}

	g := Build(counts, 2)

	assert.Equal(t, []Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
	}, g.Edges())
	assert.False(t, g.Has("d"), "nodes without retained edges are excluded")
}

func TestBuildFromPairs_RepeatedPairOverwrites(t *testing.T) {
	pairs := []cooccur.Pair{
		{A: "a", B: "b", Count: 5},
		{A: "a", B: "b", Count: 2},
		{A: "a", B: "a", Count: 9},
	}

	g := BuildFromPairs(pairs, 10)

	require.Equal(t, 1, g.EdgeCount())
	w, ok := g.Weight("b", "a")
	require.True(t, ok)
	assert.Equal(t, 2, w, "the later pair overwrites, it is not summed")
	assert.Equal(t, []string{"a", "b"}, g.Nodes())
}

func TestBuild_Empty(t *testing.T) {
	g := Build(cooccur.Counts{}, 100)

	assert.True(t, g.IsEmpty())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Edges())
}

func TestGraph_DegreeAndNeighbors(t *testing.T) {
	counts := cooccur.Counts{
		{A: "hub", B: "x"}: 3,
		{A: "hub", B: "y"}: 2,
		{A: "x", B: "y"}:   1,
		{A: "hub", B: "z"}: 1,
	}

	g := Build(counts, 10)

	assert.Equal(t, 3, g.Degree("hub"))
	assert.Equal(t, 1, g.Degree("z"))
	assert.Equal(t, 0, g.Degree("missing"))
	assert.Equal(t, 3, g.MaxDegree(g.Nodes()))

	hub, ok := g.ID("hub")
	require.True(t, ok)
	var names []string
	for _, id := range g.NeighborIDs(hub) {
		names = append(names, g.Label(id))
	}
	assert.Equal(t, []string{"x", "y", "z"}, names)

	assert.Equal(t, 4, g.Unweighted().(*simple.UndirectedGraph).Edges().Len())
}
