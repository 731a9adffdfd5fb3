// Package centrality ranks graph nodes by betweenness, eigenvector and
// closeness centrality.
//
// Disconnected graphs are handled without error: unreachable pairs have
// infinite distance, so they add no shortest paths to betweenness and no
// terms to closeness (which is scaled by the reachable fraction of the graph).
package centrality

import (
	"github.com/matsen/citenet/internal/network"
)

// Defaults for ranking.
const (
	DefaultMaxIter   = 1000
	DefaultTolerance = 1e-6
	DefaultTopN      = 10
)

// Metric names.
const (
	MetricBetweenness = "betweenness"
	MetricEigenvector = "eigenvector"
	MetricCloseness   = "closeness"
)

// Metrics lists the metric names in report order.
var Metrics = []string{MetricBetweenness, MetricEigenvector, MetricCloseness}

// Options configures ranking.
type Options struct {
	MaxIter   int     // Eigenvector power-iteration cap
	Tolerance float64 // Eigenvector convergence tolerance per node
	TopN      int     // Length of the per-metric highlight lists
}

// DefaultOptions returns the default ranking options.
func DefaultOptions() Options {
	return Options{
		MaxIter:   DefaultMaxIter,
		Tolerance: DefaultTolerance,
		TopN:      DefaultTopN,
	}
}

// Score holds the centrality values of one node.
type Score struct {
	Betweenness float64 `json:"betweenness"`
	Eigenvector float64 `json:"eigenvector"`
	Closeness   float64 `json:"closeness"`
}

// Value returns the score for a metric name.
func (s Score) Value(metric string) float64 {
	switch metric {
	case MetricBetweenness:
		return s.Betweenness
	case MetricEigenvector:
		return s.Eigenvector
	case MetricCloseness:
		return s.Closeness
	}
	return 0
}

// Top holds the highest-ranked nodes per metric.
type Top struct {
	Betweenness []Ranked `json:"betweenness"`
	Eigenvector []Ranked `json:"eigenvector"`
	Closeness   []Ranked `json:"closeness"`
}

// Result holds the centrality scores of every node of a graph.
type Result struct {
	Scores map[string]Score `json:"scores"`
	Top    Top              `json:"top"`

	// EigenvectorErr is set (to a *ConvergenceError) when the eigen-solver
	// did not converge. Eigenvector scores are then zero and must not be
	// reported.
	EigenvectorErr error `json:"-"`
}

// HasEigenvector reports whether eigenvector scores are usable.
func (r *Result) HasEigenvector() bool {
	return r.EigenvectorErr == nil
}

// Highlighted reports whether a node appears in any top list.
func (r *Result) Highlighted(node string) bool {
	for _, list := range [][]Ranked{r.Top.Betweenness, r.Top.Eigenvector, r.Top.Closeness} {
		for _, rk := range list {
			if rk.Node == node {
				return true
			}
		}
	}
	return false
}

// Rank computes all three metrics for g. Non-convergence of the eigenvector
// solver is recorded on the result; betweenness and closeness are always
// produced.
func Rank(g *network.Graph, opts Options) *Result {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	bw := Betweenness(g)
	cl := Closeness(g)
	ev, evErr := Eigenvector(g, opts.MaxIter, opts.Tolerance)

	res := &Result{
		Scores:         make(map[string]Score, g.Len()),
		EigenvectorErr: evErr,
	}

	topBW := NewTopN(opts.TopN)
	topEV := NewTopN(opts.TopN)
	topCL := NewTopN(opts.TopN)
	for _, node := range g.Nodes() {
		s := Score{Betweenness: bw[node], Closeness: cl[node]}
		if evErr == nil {
			s.Eigenvector = ev[node]
			topEV.Push(node, s.Eigenvector)
		}
		res.Scores[node] = s
		topBW.Push(node, s.Betweenness)
		topCL.Push(node, s.Closeness)
	}

	res.Top = Top{
		Betweenness: topBW.List(),
		Eigenvector: topEV.List(),
		Closeness:   topCL.List(),
	}
	return res
}
