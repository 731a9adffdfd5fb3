package viz

import (
	"encoding/json"
	"fmt"
	"os"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data Node `json:"data"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Elements converts GraphData to Cytoscape.js elements.
func (g *GraphData) Elements() CytoscapeElements {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: n})
	}

	for i, e := range g.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:     edgeID(i),
				Source: e.Source,
				Target: e.Target,
				Weight: e.Weight,
			},
		})
	}
	return elements
}

// ToCytoscapeJSON converts GraphData to Cytoscape.js JSON format.
func (g *GraphData) ToCytoscapeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(g.Elements(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return data, nil
}

// WriteFile writes the Cytoscape.js JSON to path.
func (g *GraphData) WriteFile(path string) error {
	data, err := g.ToCytoscapeJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing Cytoscape file: %w", err)
	}
	return nil
}

// edgeID numbers edges by position. Report edges are sorted, so IDs are
// stable for the same input.
func edgeID(index int) string {
	return fmt.Sprintf("e%d", index)
}
