package cluster

import (
	"fmt"
	"sort"
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

// partition returns clusters as sorted member lists, ordered, for comparisons
// that ignore cluster numbers.
func partition(r Result) [][]string {
	var out [][]string
	for _, c := range r.Clusters {
		out = append(out, c.Nodes)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func assertStrictPartition(t *testing.T, g *network.Graph, r Result) {
	t.Helper()
	seen := make(map[string]int)
	for _, c := range r.Clusters {
		require.NotEmpty(t, c.Nodes, "cluster %d is empty", c.ID)
		for _, n := range c.Nodes {
			seen[n]++
		}
	}
	for _, n := range g.Nodes() {
		assert.Equal(t, 1, seen[n], "node %q must be in exactly one cluster", n)
	}
	assert.Len(t, seen, g.Len(), "clusters must not contain unknown nodes")
}

func TestDetect_TriangleIsOneCluster(t *testing.T) {
	g := graphOf(map[[2]string]int{
		{"a", "b"}: 1,
		{"b", "c"}: 1,
		{"a", "c"}: 1,
	})

	r := Detect(g, Options{})

	require.Len(t, r.Clusters, 1)
	assert.Equal(t, []string{"a", "b", "c"}, r.Clusters[0].Nodes)
	assert.Equal(t, 1, r.Clusters[0].ID)
	assert.InDelta(t, 0.0, r.Modularity, 1e-9)
}

func TestDetect_TwoTrianglesWithBridge(t *testing.T) {
	g := graphOf(map[[2]string]int{
		{"a1", "a2"}: 1, {"a2", "a3"}: 1, {"a1", "a3"}: 1,
		{"b1", "b2"}: 1, {"b2", "b3"}: 1, {"b1", "b3"}: 1,
		{"a3", "b1"}: 1,
	})

	r := Detect(g, Options{})

	assert.Equal(t, [][]string{
		{"a1", "a2", "a3"},
		{"b1", "b2", "b3"},
	}, partition(r))
	// Q = 2 * (3/7 - (7/14)^2) = 5/14
	assert.InDelta(t, 5.0/14.0, r.Modularity, 1e-9)
	assertStrictPartition(t, g, r)
}

func TestDetect_DisconnectedComponents(t *testing.T) {
	g := graphOf(map[[2]string]int{
		{"a", "b"}: 4,
		{"c", "d"}: 1,
		{"d", "e"}: 1,
	})

	r := Detect(g, Options{})

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d", "e"}}, partition(r))
	// Largest cluster is numbered first.
	assert.Equal(t, []string{"c", "d", "e"}, r.Clusters[0].Nodes)
	assert.Equal(t, 1, r.ClusterOf("d"))
	assert.Equal(t, 2, r.ClusterOf("a"))
}

func TestDetect_WeightedObjective(t *testing.T) {
	// A 4-cycle with two heavy opposite edges splits along the heavy edges
	// only when weights are used.
	edges := map[[2]string]int{
		{"a", "b"}: 10,
		{"b", "c"}: 1,
		{"c", "d"}: 10,
		{"a", "d"}: 1,
	}
	g := graphOf(edges)

	r := Detect(g, Options{Weighted: true})

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, partition(r))
	assert.Greater(t, r.Modularity, 0.0)
}

func TestDetect_Empty(t *testing.T) {
	r := Detect(network.Build(cooccur.Counts{}, 10), Options{})

	assert.Empty(t, r.Clusters)
	assert.Equal(t, 0.0, r.Modularity)
}

func TestDetect_StrictPartitionAndDeterminism(t *testing.T) {
	edges := make(map[[2]string]int)
	for i := 0; i < 30; i++ {
		a := fmt.Sprintf("n%02d", i)
		b := fmt.Sprintf("n%02d", (i+1)%30)
		c := fmt.Sprintf("n%02d", (i*7+3)%30)
		edges[[2]string{a, b}] = 1 + i%3
		if a != c {
			edges[[2]string{a, c}] = 1
		}
	}
	g := graphOf(edges)

	first := Detect(g, Options{})
	second := Detect(g, Options{})

	assertStrictPartition(t, g, first)
	assert.Equal(t, first.Clusters, second.Clusters)
	assert.Equal(t, first.Modularity, second.Modularity)
	assert.GreaterOrEqual(t, first.Modularity, 0.0)

	for i, c := range first.Clusters {
		assert.Equal(t, i+1, c.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, first.Clusters[i-1].Size(), c.Size(), "clusters ordered by size")
		}
	}
}

func TestResult_Find(t *testing.T) {
	r := Result{Clusters: []Cluster{{ID: 1, Nodes: []string{"a"}}, {ID: 2, Nodes: []string{"b"}}}}

	c, ok := r.Find(2)
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, c.Nodes)

	_, ok = r.Find(3)
	assert.False(t, ok)
}
