package graph

import (
	"errors"
	"sort"
)

// ErrCycle is returned by TopologicalSort when the graph is not a DAG.
var ErrCycle = errors.New("graph contains a cycle")

// ShortestPath returns a minimum-hop path from src to dst, including both
// endpoints. Ties are broken by visiting successors in lexicographic order.
func (g *Directed) ShortestPath(src, dst string) ([]string, bool) {
	if !g.HasNode(src) || !g.HasNode(dst) {
		return nil, false
	}
	if src == dst {
		return []string{src}, true
	}

	prev := make(map[string]string)
	visited := map[string]bool{src: true}
	queue := []string{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Successors(u) {
			if visited[v] {
				continue
			}
			visited[v] = true
			prev[v] = u
			if v == dst {
				path := []string{dst}
				for at := dst; at != src; at = prev[at] {
					path = append(path, prev[at])
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}
			queue = append(queue, v)
		}
	}
	return nil, false
}

// TopologicalSort returns the nodes in dependency order (Kahn's algorithm,
// lexicographic among ready nodes) or ErrCycle.
func (g *Directed) TopologicalSort() ([]string, error) {
	indeg := make(map[string]int, len(g.nodes))
	var ready []string
	for _, v := range g.Nodes() {
		indeg[v] = g.InDegree(v)
		if indeg[v] == 0 {
			ready = append(ready, v)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		u := ready[0]
		ready = ready[1:]
		order = append(order, u)
		for _, v := range g.Successors(u) {
			indeg[v]--
			if indeg[v] == 0 {
				ready = append(ready, v)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// IsWeaklyConnected reports whether every node is reachable from every other
// when edge direction is ignored. The empty graph is not connected.
func (g *Directed) IsWeaklyConnected() bool {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return false
	}
	visited := map[string]bool{nodes[0]: true}
	queue := []string{nodes[0]}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Neighbors(u) {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
	return len(visited) == len(nodes)
}
