package centrality

import (
	"container/heap"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/matsen/citenet/internal/network"
)

// Betweenness returns weighted shortest-path betweenness for every node,
// normalized to [0,1] by (n-1)(n-2). Edge weights are path costs.
//
// Brandes' accumulation visits every ordered source/target pair, so each
// unordered pair is counted twice; dividing by (n-1)(n-2) is the same as
// dividing the undirected sum by (n-1)(n-2)/2. Graphs with two nodes or fewer
// score zero everywhere.
func Betweenness(g *network.Graph) map[string]float64 {
	n := g.Len()
	cb := make([]float64, n)

	for s := 0; s < n; s++ {
		stack, pred, sigma := dijkstraPaths(g, s)

		delta := make([]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	scale := 0.0
	if n > 2 {
		scale = 1 / float64((n-1)*(n-2))
	}

	out := make(map[string]float64, n)
	for i, v := range cb {
		out[g.Label(int64(i))] = v * scale
	}
	return out
}

// dijkstraPaths runs Dijkstra from s and returns the nodes in order of
// settlement, the shortest-path predecessors of each node and the number of
// shortest paths to each node.
func dijkstraPaths(g *network.Graph, s int) (stack []int, pred [][]int, sigma []float64) {
	n := g.Len()
	pred = make([][]int, n)
	sigma = make([]float64, n)
	dist := make([]float64, n)
	seen := make([]bool, n)
	settled := make([]bool, n)

	sigma[s] = 1
	seen[s] = true
	pq := &distQueue{}
	heap.Push(pq, distItem{node: s})

	for pq.Len() > 0 {
		it := heap.Pop(pq).(distItem)
		v := it.node
		if settled[v] {
			continue
		}
		settled[v] = true
		stack = append(stack, v)

		for _, wid := range g.NeighborIDs(int64(v)) {
			w := int(wid)
			if settled[w] {
				continue
			}
			nd := dist[v] + g.WeightByID(int64(v), wid)
			switch {
			case !seen[w] || nd < dist[w]:
				seen[w] = true
				dist[w] = nd
				sigma[w] = sigma[v]
				pred[w] = []int{v}
				heap.Push(pq, distItem{node: w, dist: nd, seq: pq.next()})
			case nd == dist[w]:
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}
	return stack, pred, sigma
}

// Closeness returns closeness centrality from unweighted hop distances.
//
// For a node reaching r nodes (itself included) at total distance d, the
// score is ((r-1)/d) * ((r-1)/(n-1)). The second factor scales scores of
// nodes in small components down, so unreachable nodes never raise a score.
func Closeness(g *network.Graph) map[string]float64 {
	n := g.Len()
	out := make(map[string]float64, n)

	for i := 0; i < n; i++ {
		reached, total := 0, 0
		var bf traverse.BreadthFirst
		bf.Walk(g.Weighted(), simple.Node(i), func(_ graph.Node, depth int) bool {
			reached++
			total += depth
			return false
		})

		score := 0.0
		if total > 0 && n > 1 {
			r := float64(reached - 1)
			score = (r / float64(total)) * (r / float64(n-1))
		}
		out[g.Label(int64(i))] = score
	}
	return out
}

type distItem struct {
	node int
	dist float64
	seq  int
}

// distQueue is a min-heap on distance; seq keeps pops in push order on ties.
type distQueue struct {
	items []distItem
	count int
}

func (q *distQueue) next() int {
	q.count++
	return q.count
}

func (q *distQueue) Len() int { return len(q.items) }

func (q *distQueue) Less(i, j int) bool {
	if q.items[i].dist != q.items[j].dist {
		return q.items[i].dist < q.items[j].dist
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *distQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *distQueue) Push(x any) { q.items = append(q.items, x.(distItem)) }

func (q *distQueue) Pop() any {
	old := q.items
	it := old[len(old)-1]
	q.items = old[:len(old)-1]
	return it
}
