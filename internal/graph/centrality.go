package graph

import (
	"container/heap"
	"math"
)

// DegreeCentrality returns, per node, the number of incident edges as a
// fraction of the maximum possible (n-1). Graphs with a single node score 1.
func (g *Directed) DegreeCentrality() map[string]float64 {
	nodes := g.Nodes()
	out := make(map[string]float64, len(nodes))
	if len(nodes) <= 1 {
		for _, v := range nodes {
			out[v] = 1
		}
		return out
	}
	scale := 1.0 / float64(len(nodes)-1)
	for _, v := range nodes {
		out[v] = float64(g.Degree(v)) * scale
	}
	return out
}

// BetweennessCentrality computes Brandes betweenness. With weighted=true,
// edge weights are treated as distances and shortest paths come from
// Dijkstra; otherwise hop counts are used. Scores are normalized by
// (n-1)(n-2), the number of ordered node pairs excluding the node itself.
func (g *Directed) BetweennessCentrality(weighted bool) map[string]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	bc := make(map[string]float64, n)
	for _, v := range nodes {
		bc[v] = 0
	}
	if n < 3 {
		return bc
	}

	for _, s := range nodes {
		var stack []string
		preds := make(map[string][]string, n)
		sigma := make(map[string]float64, n)
		sigma[s] = 1

		if weighted {
			stack = g.dijkstraOrder(s, preds, sigma)
		} else {
			stack = g.bfsOrder(s, preds, sigma)
		}

		// Accumulate dependencies walking the stack back to front.
		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			coeff := (1 + delta[w]) / sigma[w]
			for _, v := range preds[w] {
				delta[v] += sigma[v] * coeff
			}
			if w != s {
				bc[w] += delta[w]
			}
		}
	}

	scale := 1.0 / float64((n-1)*(n-2))
	for v := range bc {
		bc[v] *= scale
	}
	return bc
}

func (g *Directed) bfsOrder(s string, preds map[string][]string, sigma map[string]float64) []string {
	dist := map[string]int{s: 0}
	queue := []string{s}
	var order []string
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range g.Successors(u) {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
			if dist[v] == dist[u]+1 {
				sigma[v] += sigma[u]
				preds[v] = append(preds[v], u)
			}
		}
	}
	return order
}

func (g *Directed) dijkstraOrder(s string, preds map[string][]string, sigma map[string]float64) []string {
	dist := make(map[string]float64)
	settled := make(map[string]bool)
	pq := &nodeHeap{{id: s, dist: 0}}
	dist[s] = 0
	var order []string

	for pq.Len() > 0 {
		item := heap.Pop(pq).(nodeItem)
		u := item.id
		if settled[u] {
			continue
		}
		settled[u] = true
		order = append(order, u)

		for _, v := range g.Successors(u) {
			alt := dist[u] + g.succ[u][v]
			cur, seen := dist[v]
			switch {
			case !seen || alt < cur:
				dist[v] = alt
				sigma[v] = sigma[u]
				preds[v] = []string{u}
				heap.Push(pq, nodeItem{id: v, dist: alt})
			case alt == cur && !settled[v]:
				sigma[v] += sigma[u]
				preds[v] = append(preds[v], u)
			}
		}
	}
	return order
}

type nodeItem struct {
	id   string
	dist float64
}

type nodeHeap []nodeItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].id < h[j].id
}
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(nodeItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// EigenvectorCentrality runs weighted power iteration and reports whether it
// converged within maxIter sweeps. The iteration is shifted (each node keeps
// its previous score before adding incoming contributions), which keeps
// bipartite-ish graphs from oscillating forever. Callers are expected to
// substitute zeros when ok is false.
func (g *Directed) EigenvectorCentrality(maxIter int, tol float64) (map[string]float64, bool) {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return map[string]float64{}, true
	}

	x := make(map[string]float64, n)
	for _, v := range nodes {
		x[v] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxIter; iter++ {
		last := x
		x = make(map[string]float64, n)
		for _, v := range nodes {
			x[v] = last[v]
		}
		for _, u := range nodes {
			for _, v := range g.Successors(u) {
				x[v] += last[u] * g.succ[u][v]
			}
		}

		var norm float64
		for _, v := range nodes {
			norm += x[v] * x[v]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}
		var change float64
		for _, v := range nodes {
			x[v] /= norm
			change += math.Abs(x[v] - last[v])
		}
		if change < float64(n)*tol {
			return x, true
		}
	}
	return nil, false
}
