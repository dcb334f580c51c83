package graph

// connected reports adjacency in either direction.
func (g *Directed) connected(u, v string) bool {
	return g.HasEdge(u, v) || g.HasEdge(v, u)
}

// Density is the fraction of possible directed edges that exist.
func (g *Directed) Density() float64 {
	n := g.NodeCount()
	if n < 2 {
		return 0
	}
	return float64(g.EdgeCount()) / float64(n*(n-1))
}

// AverageDegree is the mean number of incident edges per node.
func (g *Directed) AverageDegree() float64 {
	n := g.NodeCount()
	if n == 0 {
		return 0
	}
	total := 0
	for _, v := range g.Nodes() {
		total += g.Degree(v)
	}
	return float64(total) / float64(n)
}

// AverageClustering is the mean local clustering coefficient of the
// undirected view of the graph.
func (g *Directed) AverageClustering() float64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	var total float64
	for _, u := range nodes {
		nbrs := g.Neighbors(u)
		k := len(nbrs)
		if k < 2 {
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if g.connected(nbrs[i], nbrs[j]) {
					links++
				}
			}
		}
		total += 2 * float64(links) / float64(k*(k-1))
	}
	return total / float64(len(nodes))
}

// Triangles returns every set of three pairwise-connected nodes (treating
// the graph as undirected), each triple sorted lexicographically.
func (g *Directed) Triangles() [][3]string {
	nodes := g.Nodes()
	var out [][3]string
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if !g.connected(nodes[i], nodes[j]) {
				continue
			}
			for k := j + 1; k < len(nodes); k++ {
				if g.connected(nodes[j], nodes[k]) && g.connected(nodes[i], nodes[k]) {
					out = append(out, [3]string{nodes[i], nodes[j], nodes[k]})
				}
			}
		}
	}
	return out
}
