package graph

import "sort"

// Directed is a weighted directed graph over string node IDs, backed by
// adjacency maps. All slice-returning accessors sort their output so that
// algorithms built on top of them are deterministic.
type Directed struct {
	nodes map[string]struct{}
	succ  map[string]map[string]float64
	pred  map[string]map[string]float64
}

func NewDirected() *Directed {
	return &Directed{
		nodes: make(map[string]struct{}),
		succ:  make(map[string]map[string]float64),
		pred:  make(map[string]map[string]float64),
	}
}

func (g *Directed) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.succ[id] = make(map[string]float64)
	g.pred[id] = make(map[string]float64)
}

// AddEdge inserts or overwrites the edge u->v with the given weight.
// Missing endpoints are added implicitly.
func (g *Directed) AddEdge(u, v string, weight float64) {
	g.AddNode(u)
	g.AddNode(v)
	g.succ[u][v] = weight
	g.pred[v][u] = weight
}

func (g *Directed) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Directed) HasEdge(u, v string) bool {
	_, ok := g.succ[u][v]
	return ok
}

// Weight returns the weight of edge u->v, or 0 if absent.
func (g *Directed) Weight(u, v string) float64 {
	return g.succ[u][v]
}

func (g *Directed) NodeCount() int { return len(g.nodes) }

func (g *Directed) EdgeCount() int {
	n := 0
	for _, nbrs := range g.succ {
		n += len(nbrs)
	}
	return n
}

func (g *Directed) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (g *Directed) Successors(u string) []string {
	return sortedKeys(g.succ[u])
}

func (g *Directed) Predecessors(u string) []string {
	return sortedKeys(g.pred[u])
}

// Neighbors returns the distinct nodes adjacent to u in either direction.
func (g *Directed) Neighbors(u string) []string {
	seen := make(map[string]struct{}, len(g.succ[u])+len(g.pred[u]))
	for v := range g.succ[u] {
		seen[v] = struct{}{}
	}
	for v := range g.pred[u] {
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (g *Directed) InDegree(u string) int  { return len(g.pred[u]) }
func (g *Directed) OutDegree(u string) int { return len(g.succ[u]) }

// Degree is the total number of incident edges (in + out).
func (g *Directed) Degree(u string) int {
	return len(g.pred[u]) + len(g.succ[u])
}

// OutWeight is the sum of weights on u's outgoing edges.
func (g *Directed) OutWeight(u string) float64 {
	var total float64
	for _, w := range g.succ[u] {
		total += w
	}
	return total
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
