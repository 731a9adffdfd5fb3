package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citenet/internal/author"
	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/cluster"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/network"
)

type fixture struct {
	pairs    []cooccur.Pair
	graph    *network.Graph
	clusters cluster.Result
	scores   *centrality.Result
}

func build(edges map[[2]string]int, opts centrality.Options) fixture {
	counts := make(cooccur.Counts)
	for e, w := range edges {
		counts.Add(e[0], e[1], w)
	}
	g := network.Build(counts, -1)
	return fixture{
		pairs:    counts.Sorted(),
		graph:    g,
		clusters: cluster.Detect(g, cluster.Options{}),
		scores:   centrality.Rank(g, opts),
	}
}

func bridgedTriangles() fixture {
	return build(map[[2]string]int{
		{"a1", "a2"}: 1, {"a2", "a3"}: 1, {"a1", "a3"}: 1,
		{"b1", "b2"}: 1, {"b2", "b3"}: 1, {"b1", "b3"}: 1,
		{"a3", "b1"}: 2,
	}, centrality.DefaultOptions())
}

func (f fixture) assemble(t *testing.T, opts Options) *Report {
	t.Helper()
	r, err := Assemble(f.pairs, f.graph, f.clusters, f.scores, opts)
	require.NoError(t, err)
	return r
}

func TestAssemble_LabelsRankByDegree(t *testing.T) {
	r := bridgedTriangles().assemble(t, Options{Mode: cooccur.ModeCoCitation})

	var labels, ids []string
	for _, n := range r.Nodes {
		labels = append(labels, n.Label)
		ids = append(ids, n.Identity)
	}
	assert.Equal(t, []string{"1-1", "1-2", "1-3", "2-1", "2-2", "2-3"}, labels)
	assert.Equal(t, []string{"a3", "a1", "a2", "b1", "b2", "b3"}, ids)
	assert.Equal(t, []ClusterRow{{Cluster: 1, NumNodes: 3}, {Cluster: 2, NumNodes: 3}}, r.Clusters)
	assert.Len(t, r.Edges, 7)
}

func TestAssemble_SizeAndColorHints(t *testing.T) {
	r := bridgedTriangles().assemble(t, Options{})

	hub, leaf := r.Nodes[0], r.Nodes[1]
	assert.Equal(t, 3, hub.Degree)
	assert.Equal(t, 30.0, hub.Size)
	assert.Equal(t, len(Palette)-1, hub.Bucket)
	assert.Equal(t, "rgb(255,100,0)", hub.Color)

	assert.Equal(t, 2, leaf.Degree)
	assert.Equal(t, 25.0, leaf.Size)
	assert.Equal(t, 3, leaf.Bucket)
	assert.Equal(t, SizeDegree, r.SizeMetric)
}

func TestAssemble_SizeByCentrality(t *testing.T) {
	f := bridgedTriangles()
	r := f.assemble(t, Options{SizeMetric: centrality.MetricBetweenness})

	for _, n := range r.Nodes {
		assert.InDelta(t, 15+50*f.scores.Scores[n.Identity].Betweenness, n.Size, 1e-12, n.Identity)
	}
	assert.Equal(t, centrality.MetricBetweenness, r.Nodes[0].Highlight)
}

func TestAssemble_EigenvectorSizeFallsBackToDegree(t *testing.T) {
	opts := centrality.DefaultOptions()
	opts.MaxIter = 1
	f := build(map[[2]string]int{{"a", "b"}: 1, {"b", "c"}: 1}, opts)

	r := f.assemble(t, Options{SizeMetric: centrality.MetricEigenvector})

	assert.Equal(t, SizeDegree, r.SizeMetric)
	assert.False(t, r.HasEigenvector)
}

func TestAssemble_ClusterFilter(t *testing.T) {
	f := bridgedTriangles()
	r := f.assemble(t, Options{Cluster: 2})

	require.Len(t, r.Nodes, 3)
	for _, n := range r.Nodes {
		assert.Equal(t, 2, n.Cluster)
	}
	assert.Len(t, r.Edges, 3)
	// The summary still lists every cluster.
	assert.Len(t, r.Clusters, 2)

	_, err := Assemble(f.pairs, f.graph, f.clusters, f.scores, Options{Cluster: 9})
	assert.ErrorIs(t, err, ErrUnknownCluster)
}

func TestAssemble_InvalidSizeMetric(t *testing.T) {
	f := bridgedTriangles()

	_, err := Assemble(f.pairs, f.graph, f.clusters, f.scores, Options{SizeMetric: "pagerank"})
	assert.Error(t, err)
}

func TestAssemble_EmptyGraph(t *testing.T) {
	f := build(nil, centrality.DefaultOptions())
	r := f.assemble(t, Options{})

	assert.Empty(t, r.Nodes)
	assert.Empty(t, r.Clusters)
	assert.Empty(t, r.TopPairs)

	var buf bytes.Buffer
	require.NoError(t, r.LegendTable().WriteCSV(&buf))
	assert.Equal(t, "Node,Reference,Cluster\n", buf.String())
}

func TestAssemble_TopPairsLimit(t *testing.T) {
	edges := make(map[[2]string]int)
	for i, n := range []string{"b", "c", "d", "e", "f"} {
		edges[[2]string{"a", n}] = i + 1
	}
	f := build(edges, centrality.DefaultOptions())

	r := f.assemble(t, Options{TopPairs: 2})

	assert.Equal(t, []cooccur.Pair{{A: "a", B: "f", Count: 5}, {A: "a", B: "e", Count: 4}}, r.TopPairs)
	assert.Equal(t, "top2_co_citation.csv", r.PairsTable().Name)
}

func csvOf(t *testing.T, tbl Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	return buf.String()
}

func TestPairsTable_Bytes(t *testing.T) {
	r := &Report{
		Mode:      cooccur.ModeCoupling,
		PairLimit: 20,
		TopPairs: []cooccur.Pair{
			{A: "Graphs, trees and forests", B: "T2", Count: 3},
			{A: "T1", B: "T2", Count: 1},
		},
	}

	tbl := r.PairsTable()

	assert.Equal(t, "top20_bibliographic_coupling.csv", tbl.Name)
	assert.Equal(t, "Article1,Article2,Shared_Refs\n\"Graphs, trees and forests\",T2,3\nT1,T2,1\n", csvOf(t, tbl))
}

func TestCentralityTable_OmitsEigenvectorOnFailure(t *testing.T) {
	opts := centrality.DefaultOptions()
	opts.MaxIter = 1
	f := build(map[[2]string]int{{"a", "b"}: 1, {"b", "c"}: 1}, opts)
	r := f.assemble(t, Options{Mode: cooccur.ModeCoCitation})

	got := csvOf(t, r.CentralityTable())

	assert.Equal(t, "Node,Betweenness,Closeness\nb,1,1\na,0,0.6666666666666666\nc,0,0.6666666666666666\n", got)
}

func TestCentralityTable_WithEigenvector(t *testing.T) {
	r := bridgedTriangles().assemble(t, Options{})

	tbl := r.CentralityTable()

	assert.Equal(t, []string{"Node", "Betweenness", "Eigenvector", "Closeness"}, tbl.Header)
	require.Len(t, tbl.Rows, 6)
	// a3 and b1 carry the bridge and tie on betweenness.
	assert.Equal(t, "a3", tbl.Rows[0][0])
	assert.Equal(t, "b1", tbl.Rows[1][0])
}

func TestTables_Reproducible(t *testing.T) {
	first := bridgedTriangles().assemble(t, Options{})
	second := bridgedTriangles().assemble(t, Options{})

	for i, tbl := range first.Tables() {
		assert.Equal(t, csvOf(t, tbl), csvOf(t, second.Tables()[i]), tbl.Name)
	}
}

func TestAuthorTable(t *testing.T) {
	tbl := AuthorTable([]author.Stats{
		{Author: "Doe A", Articles: 2, TotalCitations: 5, AverageCitations: 2.5, HIndex: 1, GIndex: 2},
	})

	assert.Equal(t,
		"Author,Number of Articles,Total Citations,Average Citations,h-index,g-index\nDoe A,2,5,2.5,1,2\n",
		csvOf(t, tbl))
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := bridgedTriangles().assemble(t, Options{Mode: cooccur.ModeCoCitation})

	paths, err := WriteDir(dir, r.Tables())
	require.NoError(t, err)

	require.Len(t, paths, 4)
	for _, name := range []string{"top20_co_citation.csv", "clusters_summary.csv", "legend_co_citation.csv", "centrality.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "clusters_summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Cluster,Num_Nodes\n1,3\n2,3\n", string(data))
}
