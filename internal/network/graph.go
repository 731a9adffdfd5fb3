// Package network builds weighted undirected co-occurrence graphs from
// counted pairs.
package network

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matsen/citenet/internal/cooccur"
)

// Default edge caps.
const (
	DefaultTopKCoCitation = 200
	DefaultTopKCoupling   = 100
)

// ErrEmptyGraph indicates that no pair survived top-K filtering.
var ErrEmptyGraph = errors.New("graph has no edges")

// Edge is a weighted undirected edge between two node labels (Source < Target).
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Graph is an undirected weighted graph whose nodes are labelled by
// reference identity or record title. Node ids are assigned in sorted label
// order so every traversal over ids is deterministic.
type Graph struct {
	g      *simple.WeightedUndirectedGraph
	ids    map[string]int64
	labels []string
}

// Build creates a graph from the topK highest-count pairs. Pairs are ordered
// by count descending with ties broken by canonical pair order. A pair seen
// twice overwrites the earlier weight. Nodes only exist if a retained pair
// touches them.
func Build(counts cooccur.Counts, topK int) *Graph {
	return BuildFromPairs(counts.Sorted(), topK)
}

// BuildFromPairs is Build for pairs that are already counted. The pairs are
// re-sorted, so callers need not pre-sort them.
func BuildFromPairs(pairs []cooccur.Pair, topK int) *Graph {
	sorted := make([]cooccur.Pair, len(pairs))
	copy(sorted, pairs)
	cooccur.SortPairs(sorted)
	if topK >= 0 && len(sorted) > topK {
		sorted = sorted[:topK]
	}

	labelSet := make(map[string]bool)
	for _, p := range sorted {
		if p.A == p.B || p.Count <= 0 {
			continue
		}
		labelSet[p.A] = true
		labelSet[p.B] = true
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	gr := &Graph{
		g:      simple.NewWeightedUndirectedGraph(0, 0),
		ids:    make(map[string]int64, len(labels)),
		labels: labels,
	}
	for i, l := range labels {
		gr.ids[l] = int64(i)
		gr.g.AddNode(simple.Node(i))
	}

	for _, p := range sorted {
		if p.A == p.B || p.Count <= 0 {
			continue
		}
		from, to := simple.Node(gr.ids[p.A]), simple.Node(gr.ids[p.B])
		// SetWeightedEdge replaces an existing edge, so repeats overwrite.
		gr.g.SetWeightedEdge(gr.g.NewWeightedEdge(from, to, float64(p.Count)))
	}

	return gr
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.labels)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.g.Edges().Len()
}

// IsEmpty reports whether the graph has no edges.
func (g *Graph) IsEmpty() bool {
	return g.Len() == 0
}

// Nodes returns node labels in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Has reports whether a node with the given label exists.
func (g *Graph) Has(label string) bool {
	_, ok := g.ids[label]
	return ok
}

// ID returns the gonum node id of a label.
func (g *Graph) ID(label string) (int64, bool) {
	id, ok := g.ids[label]
	return id, ok
}

// Label returns the label of a gonum node id.
func (g *Graph) Label(id int64) string {
	return g.labels[id]
}

// Degree returns the number of neighbors of a node (0 if absent).
func (g *Graph) Degree(label string) int {
	id, ok := g.ids[label]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// MaxDegree returns the largest degree among the given labels.
func (g *Graph) MaxDegree(labels []string) int {
	maxDeg := 0
	for _, l := range labels {
		if d := g.Degree(l); d > maxDeg {
			maxDeg = d
		}
	}
	return maxDeg
}

// Weight returns the weight of the edge between a and b.
func (g *Graph) Weight(a, b string) (int, bool) {
	ia, okA := g.ids[a]
	ib, okB := g.ids[b]
	if !okA || !okB || ia == ib {
		return 0, false
	}
	if !g.g.HasEdgeBetween(ia, ib) {
		return 0, false
	}
	w, _ := g.g.Weight(ia, ib)
	return int(w), true
}

// NeighborIDs returns the neighbor ids of a node id in ascending order.
func (g *Graph) NeighborIDs(id int64) []int64 {
	nodes := graph.NodesOf(g.g.From(id))
	out := make([]int64, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WeightByID returns the edge weight between two node ids.
func (g *Graph) WeightByID(a, b int64) float64 {
	w, _ := g.g.Weight(a, b)
	return w
}

// Edges returns all edges sorted by (Source, Target).
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for from := range g.labels {
		for _, to := range g.NeighborIDs(int64(from)) {
			if to <= int64(from) {
				continue
			}
			edges = append(edges, Edge{
				Source: g.labels[from],
				Target: g.labels[to],
				Weight: int(g.WeightByID(int64(from), to)),
			})
		}
	}
	return edges
}

// Weighted exposes the underlying gonum graph.
func (g *Graph) Weighted() graph.WeightedUndirected {
	return g.g
}

// Unweighted returns a copy of the graph with unit edge weights and the same
// node ids, for algorithms that must ignore weights.
func (g *Graph) Unweighted() graph.Undirected {
	u := simple.NewUndirectedGraph()
	for i := range g.labels {
		u.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		u.SetEdge(simple.Edge{F: simple.Node(g.ids[e.Source]), T: simple.Node(g.ids[e.Target])})
	}
	return u
}
