package centrality

import "sort"

// Ranked is a node with its metric value.
type Ranked struct {
	Node  string  `json:"node"`
	Value float64 `json:"value"`
}

// TopN is a bounded list that keeps the n highest values, ordered by value
// descending with ties broken by node name ascending.
type TopN struct {
	cap   int
	items []Ranked
}

// NewTopN creates a list that holds at most n entries.
func NewTopN(n int) *TopN {
	if n < 0 {
		n = 0
	}
	return &TopN{cap: n, items: make([]Ranked, 0, n)}
}

// Push offers a node. It is kept only if it ranks within the top n.
func (t *TopN) Push(node string, value float64) {
	if t.cap == 0 {
		return
	}
	r := Ranked{Node: node, Value: value}
	i := sort.Search(len(t.items), func(i int) bool { return before(r, t.items[i]) })
	if i >= t.cap {
		return
	}
	if len(t.items) < t.cap {
		t.items = append(t.items, Ranked{})
	}
	copy(t.items[i+1:], t.items[i:])
	t.items[i] = r
}

// Len returns the number of entries held.
func (t *TopN) Len() int {
	return len(t.items)
}

// List returns a copy of the entries in rank order.
func (t *TopN) List() []Ranked {
	out := make([]Ranked, len(t.items))
	copy(out, t.items)
	return out
}

// before reports whether a ranks ahead of b.
func before(a, b Ranked) bool {
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	return a.Node < b.Node
}
