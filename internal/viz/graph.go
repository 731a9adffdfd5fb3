package viz

import (
	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/report"
)

// HighlightColors maps each centrality list to its highlight color.
var HighlightColors = map[string]string{
	centrality.MetricBetweenness: "red",
	centrality.MetricEigenvector: "blue",
	centrality.MetricCloseness:   "green",
}

// FromReport builds graph data from the nodes and edges shown in a report.
// Node order follows the report legend; edge order follows the report.
func FromReport(rep *report.Report) *GraphData {
	g := &GraphData{
		Mode:  string(rep.Mode),
		Nodes: make([]Node, 0, len(rep.Nodes)),
		Edges: make([]Edge, 0, len(rep.Edges)),
	}

	for _, n := range rep.Nodes {
		g.Nodes = append(g.Nodes, newNode(n))
	}
	for _, e := range rep.Edges {
		g.Edges = append(g.Edges, Edge{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}
	return g
}

// newNode creates a visualization node from a report row.
func newNode(n report.Node) Node {
	return Node{
		ID:             n.Identity,
		Label:          n.Label,
		Cluster:        n.Cluster,
		Degree:         n.Degree,
		Size:           n.Size,
		Color:          n.Color,
		Highlight:      n.Highlight,
		HighlightColor: HighlightColors[n.Highlight],
	}
}
