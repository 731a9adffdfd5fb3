// Package report joins graph structure, clusters and centrality scores into
// per-node rows and the exportable result tables.
package report

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/matsen/citenet/internal/author"
	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/cluster"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/network"
)

// DefaultTopPairs is the length of the top pairs table.
const DefaultTopPairs = 20

// SizeDegree sizes nodes by degree. The centrality metric names are the
// other valid size metrics.
const SizeDegree = "degree"

// SizeMetrics lists the valid size metrics.
var SizeMetrics = []string{
	SizeDegree,
	centrality.MetricBetweenness,
	centrality.MetricEigenvector,
	centrality.MetricCloseness,
}

// ErrUnknownCluster indicates a cluster filter that names no cluster.
var ErrUnknownCluster = errors.New("unknown cluster")

// Palette holds the color hints from lowest to highest relative degree.
var Palette = []string{
	"rgb(255,200,100)",
	"rgb(255,175,75)",
	"rgb(255,150,50)",
	"rgb(255,125,25)",
	"rgb(255,100,0)",
}

// Options configures assembly.
type Options struct {
	Mode       cooccur.Mode
	TopPairs   int    // Rows in the top pairs table (0 uses DefaultTopPairs)
	SizeMetric string // One of SizeMetrics (empty uses SizeDegree)
	Cluster    int    // Restrict the view to one cluster (0 shows all)
}

// Node is one graph node as shown in a report.
type Node struct {
	Label       string  `json:"label"` // "<cluster>-<rank>"
	Identity    string  `json:"identity"`
	Cluster     int     `json:"cluster"`
	Rank        int     `json:"rank"`
	Degree      int     `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Eigenvector float64 `json:"eigenvector"`
	Closeness   float64 `json:"closeness"`
	Size        float64 `json:"size"`
	Bucket      int     `json:"bucket"`
	Color       string  `json:"color"`
	Highlight   string  `json:"highlight,omitempty"` // First top-N list holding the node
}

// ClusterRow is one row of the cluster summary.
type ClusterRow struct {
	Cluster  int `json:"cluster"`
	NumNodes int `json:"num_nodes"`
}

// Report is the assembled result of one analysis run.
type Report struct {
	Mode           cooccur.Mode   `json:"mode"`
	TopPairs       []cooccur.Pair `json:"top_pairs"`
	PairLimit      int            `json:"pair_limit"`
	Clusters       []ClusterRow   `json:"clusters"`
	Modularity     float64        `json:"modularity"`
	Nodes          []Node         `json:"nodes"` // Legend order: cluster, then rank
	Edges          []network.Edge `json:"edges"` // Edges between shown nodes
	SizeMetric     string         `json:"size_metric"`
	HasEigenvector bool           `json:"has_eigenvector"`
	Authors        []author.Stats `json:"authors,omitempty"`
}

// ValidateSizeMetric checks a size metric name.
func ValidateSizeMetric(metric string) error {
	for _, m := range SizeMetrics {
		if m == metric {
			return nil
		}
	}
	return fmt.Errorf("invalid size metric %q: must be one of %v", metric, SizeMetrics)
}

// Assemble builds the report. pairs are all counted pairs; only the top
// opts.TopPairs are kept. Within each cluster, nodes are ranked by degree
// descending with ties broken by identity. When eigenvector scores are
// unavailable an eigenvector size metric falls back to degree.
func Assemble(pairs []cooccur.Pair, g *network.Graph, clusters cluster.Result, scores *centrality.Result, opts Options) (*Report, error) {
	if opts.TopPairs <= 0 {
		opts.TopPairs = DefaultTopPairs
	}
	if opts.SizeMetric == "" {
		opts.SizeMetric = SizeDegree
	}
	if err := ValidateSizeMetric(opts.SizeMetric); err != nil {
		return nil, err
	}
	if opts.SizeMetric == centrality.MetricEigenvector && !scores.HasEigenvector() {
		opts.SizeMetric = SizeDegree
	}

	shown := clusters.Clusters
	if opts.Cluster != 0 {
		c, ok := clusters.Find(opts.Cluster)
		if !ok {
			return nil, fmt.Errorf("cluster %d: %w", opts.Cluster, ErrUnknownCluster)
		}
		shown = []cluster.Cluster{c}
	}

	rep := &Report{
		Mode:           opts.Mode,
		TopPairs:       topPairs(pairs, opts.TopPairs),
		PairLimit:      opts.TopPairs,
		Clusters:       make([]ClusterRow, 0, len(clusters.Clusters)),
		Modularity:     clusters.Modularity,
		Nodes:          []Node{},
		Edges:          []network.Edge{},
		SizeMetric:     opts.SizeMetric,
		HasEigenvector: scores.HasEigenvector(),
	}
	for _, c := range clusters.Clusters {
		rep.Clusters = append(rep.Clusters, ClusterRow{Cluster: c.ID, NumNodes: c.Size()})
	}

	var visible []string
	for _, c := range shown {
		visible = append(visible, c.Nodes...)
	}
	maxDeg := g.MaxDegree(visible)

	inView := make(map[string]bool, len(visible))
	for _, c := range shown {
		for i, id := range rankByDegree(g, c.Nodes) {
			inView[id] = true
			deg := g.Degree(id)
			s := scores.Scores[id]
			bucket := colorBucket(deg, maxDeg)
			rep.Nodes = append(rep.Nodes, Node{
				Label:       fmt.Sprintf("%d-%d", c.ID, i+1),
				Identity:    id,
				Cluster:     c.ID,
				Rank:        i + 1,
				Degree:      deg,
				Betweenness: s.Betweenness,
				Eigenvector: s.Eigenvector,
				Closeness:   s.Closeness,
				Size:        sizeHint(opts.SizeMetric, deg, s),
				Bucket:      bucket,
				Color:       Palette[bucket],
				Highlight:   highlight(scores, id),
			})
		}
	}

	for _, e := range g.Edges() {
		if inView[e.Source] && inView[e.Target] {
			rep.Edges = append(rep.Edges, e)
		}
	}
	return rep, nil
}

func topPairs(pairs []cooccur.Pair, n int) []cooccur.Pair {
	sorted := make([]cooccur.Pair, len(pairs))
	copy(sorted, pairs)
	cooccur.SortPairs(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// rankByDegree orders cluster members by degree descending, then identity.
func rankByDegree(g *network.Graph, members []string) []string {
	out := make([]string, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool {
		di, dj := g.Degree(out[i]), g.Degree(out[j])
		if di != dj {
			return di > dj
		}
		return out[i] < out[j]
	})
	return out
}

func sizeHint(metric string, degree int, s centrality.Score) float64 {
	if metric == SizeDegree {
		return 15 + 5*float64(degree)
	}
	return 15 + 50*s.Value(metric)
}

// colorBucket maps degree relative to the view's maximum onto the palette.
func colorBucket(degree, maxDegree int) int {
	if maxDegree <= 0 {
		return 0
	}
	norm := float64(degree) / float64(maxDegree)
	return int(math.Round(norm * float64(len(Palette)-1)))
}

func highlight(scores *centrality.Result, node string) string {
	lists := []struct {
		metric string
		top    []centrality.Ranked
	}{
		{centrality.MetricBetweenness, scores.Top.Betweenness},
		{centrality.MetricEigenvector, scores.Top.Eigenvector},
		{centrality.MetricCloseness, scores.Top.Closeness},
	}
	for _, l := range lists {
		for _, r := range l.top {
			if r.Node == node {
				return l.metric
			}
		}
	}
	return ""
}
