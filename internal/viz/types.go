// Package viz exports an assembled report as graph data for Cytoscape.js.
package viz

// GraphData contains all data needed to render the network.
type GraphData struct {
	Mode  string `json:"mode"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one reference (co-citation) or article (coupling) in the network.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"` // "<cluster>-<rank>"; the legend maps it back to ID

	Cluster int     `json:"cluster"`
	Degree  int     `json:"degree"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`

	// Set when the node is in a top-N centrality list
	Highlight      string `json:"highlight,omitempty"`
	HighlightColor string `json:"highlightColor,omitempty"`
}

// Edge is a weighted co-occurrence between two nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
