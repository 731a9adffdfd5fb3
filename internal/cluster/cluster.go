// Package cluster partitions co-occurrence graphs into communities by greedy
// modularity maximization (Clauset, Newman and Moore 2004).
//
// Cluster numbers are labels only: they are assigned by decreasing cluster
// size after detection. Membership is reproducible for a fixed graph and
// fixed options, so callers should compare partitions, not numbers.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matsen/citenet/internal/network"
)

// minGain is the smallest modularity gain that still justifies a merge.
// It absorbs floating point noise around zero.
const minGain = 1e-12

// Options configures community detection.
type Options struct {
	// Weighted uses edge weights in the modularity objective. The default
	// treats every edge as weight 1.
	Weighted bool
}

// Cluster is a non-empty set of node labels.
type Cluster struct {
	ID    int      `json:"id"`
	Nodes []string `json:"nodes"` // Sorted
}

// Size returns the number of nodes in the cluster.
func (c Cluster) Size() int {
	return len(c.Nodes)
}

// Result holds a partition of a graph.
type Result struct {
	Clusters   []Cluster      `json:"clusters"`
	Modularity float64        `json:"modularity"`
	Membership map[string]int `json:"-"` // Node label -> cluster ID
}

// ClusterOf returns the cluster ID of a node, or 0 if the node is unknown.
func (r Result) ClusterOf(label string) int {
	return r.Membership[label]
}

// Find returns the cluster with the given ID.
func (r Result) Find(id int) (Cluster, bool) {
	for _, c := range r.Clusters {
		if c.ID == id {
			return c, true
		}
	}
	return Cluster{}, false
}

// workingCommunity is a community during agglomeration.
type workingCommunity struct {
	members []int64
	// a is the fraction of edge ends attached to the community (k_i / 2m).
	a float64
	// e maps adjacent community index -> fraction of edge ends between them.
	e map[int]float64
}

// Detect partitions g. An empty graph yields an empty result; a graph with no
// beneficial split yields a single cluster.
func Detect(g *network.Graph, opts Options) Result {
	if g.IsEmpty() {
		return Result{Membership: map[string]int{}}
	}

	n := g.Len()
	weight := func(a, b int64) float64 {
		if opts.Weighted {
			return g.WeightByID(a, b)
		}
		return 1
	}

	// Total edge weight m and initial per-node structure.
	comms := make([]*workingCommunity, n)
	var twoM float64
	for i := 0; i < n; i++ {
		c := &workingCommunity{members: []int64{int64(i)}, e: make(map[int]float64)}
		for _, j := range g.NeighborIDs(int64(i)) {
			w := weight(int64(i), j)
			c.e[int(j)] = w
			c.a += w
			twoM += w
		}
		comms[i] = c
	}
	for _, c := range comms {
		c.a /= twoM
		for j := range c.e {
			c.e[j] /= twoM
		}
	}

	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}

	for {
		bi, bj, best := -1, -1, 0.0
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			ci := comms[i]
			for _, j := range sortedKeys(ci.e) {
				if j <= i {
					continue
				}
				dq := 2 * (ci.e[j] - ci.a*comms[j].a)
				if bi < 0 || dq > best {
					bi, bj, best = i, j, dq
				}
			}
		}
		if bi < 0 || best <= minGain {
			break
		}
		merge(comms, bi, bj)
		active[bj] = false
	}

	var groups [][]int64
	for i, c := range comms {
		if active[i] {
			groups = append(groups, c.members)
		}
	}

	res := buildResult(g, groups)
	res.Modularity = Modularity(g, res, opts)
	return res
}

// merge folds community j into community i.
func merge(comms []*workingCommunity, i, j int) {
	ci, cj := comms[i], comms[j]
	for k, ejk := range cj.e {
		if k == i {
			continue
		}
		ci.e[k] += ejk
		ck := comms[k]
		ck.e[i] += ejk
		delete(ck.e, j)
	}
	delete(ci.e, j)
	ci.a += cj.a
	ci.members = append(ci.members, cj.members...)
	cj.e = nil
	cj.members = nil
}

// buildResult converts id groups into labelled, numbered clusters: sorted by
// size descending, then by first member label.
func buildResult(g *network.Graph, groups [][]int64) Result {
	clusters := make([]Cluster, 0, len(groups))
	for _, members := range groups {
		labels := make([]string, len(members))
		for i, id := range members {
			labels[i] = g.Label(id)
		}
		sort.Strings(labels)
		clusters = append(clusters, Cluster{Nodes: labels})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Size() != clusters[j].Size() {
			return clusters[i].Size() > clusters[j].Size()
		}
		return clusters[i].Nodes[0] < clusters[j].Nodes[0]
	})

	membership := make(map[string]int, g.Len())
	for i := range clusters {
		clusters[i].ID = i + 1
		for _, l := range clusters[i].Nodes {
			membership[l] = clusters[i].ID
		}
	}
	return Result{Clusters: clusters, Membership: membership}
}

// Modularity scores a partition of g with gonum's Q at resolution 1. The
// weighting follows opts so it matches the objective Detect maximized.
func Modularity(g *network.Graph, r Result, opts Options) float64 {
	if g.EdgeCount() == 0 || len(r.Clusters) == 0 {
		return 0
	}

	communities := make([][]graph.Node, len(r.Clusters))
	for i, c := range r.Clusters {
		nodes := make([]graph.Node, 0, len(c.Nodes))
		for _, l := range c.Nodes {
			if id, ok := g.ID(l); ok {
				nodes = append(nodes, simple.Node(id))
			}
		}
		communities[i] = nodes
	}

	if opts.Weighted {
		return community.Q(g.Weighted(), communities, 1)
	}
	return community.Q(g.Unweighted(), communities, 1)
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
