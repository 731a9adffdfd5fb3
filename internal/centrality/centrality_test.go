package centrality

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/network"
)

func graphOf(edges map[[2]string]int) *network.Graph {
	counts := make(cooccur.Counts)
	for e, w := range edges {
		counts.Add(e[0], e[1], w)
	}
	return network.Build(counts, -1)
}

func star() *network.Graph {
	return graphOf(map[[2]string]int{
		{"hub", "x"}: 1,
		{"hub", "y"}: 1,
		{"hub", "z"}: 1,
	})
}

func path3() *network.Graph {
	return graphOf(map[[2]string]int{
		{"a", "b"}: 1,
		{"b", "c"}: 1,
	})
}

func TestBetweenness_StarCenterIsOne(t *testing.T) {
	bw := Betweenness(star())

	assert.InDelta(t, 1.0, bw["hub"], 1e-12)
	for _, leaf := range []string{"x", "y", "z"} {
		assert.Equal(t, 0.0, bw[leaf], leaf)
	}
}

func TestBetweenness_WeightsAreCosts(t *testing.T) {
	// a-b-c costs 2, a-c costs 5: the cheap route goes through b.
	g := graphOf(map[[2]string]int{
		{"a", "b"}: 1,
		{"b", "c"}: 1,
		{"a", "c"}: 5,
	})

	bw := Betweenness(g)

	assert.InDelta(t, 1.0, bw["b"], 1e-12)
	assert.Equal(t, 0.0, bw["a"])
	assert.Equal(t, 0.0, bw["c"])
}

func TestBetweenness_EqualPathsSplitCredit(t *testing.T) {
	// Two equal routes from a to d, through b and through c.
	g := graphOf(map[[2]string]int{
		{"a", "b"}: 1,
		{"a", "c"}: 1,
		{"b", "d"}: 1,
		{"c", "d"}: 1,
	})

	bw := Betweenness(g)

	// Each of a, b, c, d lies on half the shortest paths of one pair:
	// 2 directions * 0.5 / ((4-1)*(4-2)).
	for _, n := range []string{"a", "b", "c", "d"} {
		assert.InDelta(t, 1.0/6.0, bw[n], 1e-12, n)
	}
}

func TestBetweenness_TwoNodesScoreZero(t *testing.T) {
	bw := Betweenness(graphOf(map[[2]string]int{{"a", "b"}: 3}))

	assert.Equal(t, map[string]float64{"a": 0, "b": 0}, bw)
}

func TestCloseness_Path(t *testing.T) {
	cl := Closeness(path3())

	assert.InDelta(t, 1.0, cl["b"], 1e-12)
	assert.InDelta(t, 2.0/3.0, cl["a"], 1e-12)
	assert.InDelta(t, 2.0/3.0, cl["c"], 1e-12)
}

func TestCloseness_IgnoresWeights(t *testing.T) {
	heavy := graphOf(map[[2]string]int{
		{"a", "b"}: 9,
		{"b", "c"}: 1,
	})

	assert.Equal(t, Closeness(path3()), Closeness(heavy))
}

func TestDisconnectedGraph(t *testing.T) {
	g := graphOf(map[[2]string]int{
		{"a", "b"}: 1,
		{"c", "d"}: 1,
	})

	r := Rank(g, DefaultOptions())

	require.Len(t, r.Scores, 4)
	for node, s := range r.Scores {
		assert.Equal(t, 0.0, s.Betweenness, node)
		// Reaches one of three other nodes at distance 1.
		assert.InDelta(t, 1.0/3.0, s.Closeness, 1e-12, node)
	}
	assert.True(t, r.HasEigenvector())
}

func TestEigenvector_Path(t *testing.T) {
	ev, err := Eigenvector(path3(), DefaultMaxIter, DefaultTolerance)
	require.NoError(t, err)

	assert.InDelta(t, ev["a"], ev["c"], 1e-9)
	assert.InDelta(t, math.Sqrt2, ev["b"]/ev["a"], 1e-4)

	norm := 0.0
	for _, v := range ev {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestEigenvector_NotConverged(t *testing.T) {
	_, err := Eigenvector(path3(), 1, DefaultTolerance)
	require.Error(t, err)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Iterations)
	assert.True(t, IsConvergenceError(err))
	assert.ErrorIs(t, err, ErrNotConverged)
}

func TestEigenvector_EmptyGraph(t *testing.T) {
	ev, err := Eigenvector(network.Build(cooccur.Counts{}, 10), 0, 0)

	require.NoError(t, err)
	assert.Empty(t, ev)
}

func TestRank_ScoresInUnitInterval(t *testing.T) {
	g := graphOf(map[[2]string]int{
		{"a", "b"}: 3, {"b", "c"}: 1, {"c", "d"}: 2,
		{"d", "e"}: 1, {"e", "a"}: 4, {"b", "e"}: 2,
		{"f", "g"}: 1,
	})

	r := Rank(g, DefaultOptions())

	for node, s := range r.Scores {
		for _, m := range Metrics {
			v := s.Value(m)
			assert.GreaterOrEqual(t, v, 0.0, "%s %s", node, m)
			assert.LessOrEqual(t, v, 1.0, "%s %s", node, m)
		}
	}
}

func TestRank_EigenvectorFailureKeepsOtherMetrics(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIter = 1

	r := Rank(path3(), opts)

	assert.False(t, r.HasEigenvector())
	assert.True(t, IsConvergenceError(r.EigenvectorErr))
	assert.Empty(t, r.Top.Eigenvector)
	assert.Len(t, r.Top.Betweenness, 3)
	assert.Len(t, r.Top.Closeness, 3)
	assert.Equal(t, "b", r.Top.Betweenness[0].Node)
	assert.Equal(t, 0.0, r.Scores["b"].Eigenvector)
}

func TestRank_TopListsAndHighlight(t *testing.T) {
	opts := DefaultOptions()
	opts.TopN = 1

	r := Rank(star(), opts)

	require.Len(t, r.Top.Betweenness, 1)
	assert.Equal(t, Ranked{Node: "hub", Value: r.Scores["hub"].Betweenness}, r.Top.Betweenness[0])
	assert.Equal(t, "hub", r.Top.Eigenvector[0].Node)
	assert.Equal(t, "hub", r.Top.Closeness[0].Node)
	assert.True(t, r.Highlighted("hub"))
	assert.False(t, r.Highlighted("x"))
}

func TestTopN(t *testing.T) {
	top := NewTopN(3)
	top.Push("d", 0.5)
	top.Push("a", 0.1)
	top.Push("c", 0.9)
	top.Push("b", 0.5)
	top.Push("e", 0.05)

	assert.Equal(t, 3, top.Len())
	assert.Equal(t, []Ranked{
		{Node: "c", Value: 0.9},
		{Node: "b", Value: 0.5},
		{Node: "d", Value: 0.5},
	}, top.List())
}

func TestTopN_Zero(t *testing.T) {
	top := NewTopN(0)
	top.Push("a", 1)

	assert.Equal(t, 0, top.Len())
	assert.Empty(t, top.List())
}
