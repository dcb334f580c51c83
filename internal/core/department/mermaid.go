package department

import (
	"fmt"
	"sort"
	"strings"
)

// MermaidNetwork renders the department graph snapshot as a mermaid
// flowchart. The textual shape (fences, node lines, style lines, edge
// lines) is a wire contract consumed by note-rendering tooling.
func (r *Report) MermaidNetwork() string {
	if r.graph == nil || r.graph.g.NodeCount() == 0 {
		return "```mermaid\ngraph LR\n    NoData[\"no data\"]\n```"
	}

	lines := []string{"```mermaid", "graph LR"}

	for _, dept := range r.graph.g.Nodes() {
		id := mermaidID(dept)
		size := r.graph.size[dept]
		lines = append(lines, fmt.Sprintf("    %s[\"%s\\n(%d people)\"]", id, dept, size))
		lines = append(lines, "    "+nodeStyle(id, size))
	}

	type edge struct {
		u, v   string
		weight int
	}
	var edges []edge
	for _, u := range r.graph.g.Nodes() {
		for _, v := range r.graph.g.Successors(u) {
			edges = append(edges, edge{u, v, int(r.graph.g.Weight(u, v))})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})

	for _, e := range edges {
		src, dst := mermaidID(e.u), mermaidID(e.v)
		if e.weight > 5 {
			lines = append(lines, fmt.Sprintf("    %s -->|%d| %s", src, e.weight, dst))
		} else {
			lines = append(lines, fmt.Sprintf("    %s --> %s", src, dst))
		}
	}

	lines = append(lines, "```")
	return strings.Join(lines, "\n")
}

// nodeStyle bands departments by headcount: big teams red and thick, small
// ones green and thin.
func nodeStyle(id string, size int) string {
	switch {
	case size > 10:
		return fmt.Sprintf("style %s fill:#ff9999,stroke:#333,stroke-width:4px", id)
	case size > 5:
		return fmt.Sprintf("style %s fill:#ffcc99,stroke:#333,stroke-width:2px", id)
	default:
		return fmt.Sprintf("style %s fill:#ccffcc,stroke:#333,stroke-width:1px", id)
	}
}

// mermaidID makes a department name safe for the diagram grammar.
func mermaidID(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
