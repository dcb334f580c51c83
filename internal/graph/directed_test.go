package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEdgeImplicitNodes(t *testing.T) {
	g := NewDirected()
	g.AddEdge("a", "b", 2)
	g.AddEdge("a", "c", 1)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge("a", "b"))
	assert.False(t, g.HasEdge("b", "a"))
	assert.Equal(t, 2.0, g.Weight("a", "b"))
	assert.Equal(t, []string{"b", "c"}, g.Successors("a"))
	assert.Equal(t, []string{"a"}, g.Predecessors("b"))
}

func TestDegreeAndOutWeight(t *testing.T) {
	g := NewDirected()
	g.AddEdge("a", "b", 5)
	g.AddEdge("b", "a", 3)
	g.AddEdge("a", "c", 2)

	assert.Equal(t, 3, g.Degree("a")) // two out, one in
	assert.Equal(t, 7.0, g.OutWeight("a"))
	assert.Equal(t, []string{"b", "c"}, g.Neighbors("a"))
}

func TestShortestPath(t *testing.T) {
	g := NewDirected()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("a", "d", 1)
	g.AddEdge("d", "c", 1)

	path, ok := g.ShortestPath("a", "c")
	assert.True(t, ok)
	assert.Len(t, path, 3)
	// Lexicographic tie-break: via b, not d.
	assert.Equal(t, []string{"a", "b", "c"}, path)

	_, ok = g.ShortestPath("c", "a")
	assert.False(t, ok)

	path, ok = g.ShortestPath("a", "a")
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, path)
}

func TestTopologicalSort(t *testing.T) {
	g := NewDirected()
	g.AddEdge("s1", "s2", 1)
	g.AddEdge("s1", "s3", 1)
	g.AddEdge("s2", "s4", 1)
	g.AddEdge("s3", "s4", 1)

	order, err := g.TopologicalSort()
	assert.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, order)
}

func TestTopologicalSortCycle(t *testing.T) {
	g := NewDirected()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("c", "a", 1)

	_, err := g.TopologicalSort()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestIsWeaklyConnected(t *testing.T) {
	g := NewDirected()
	assert.False(t, g.IsWeaklyConnected())

	g.AddEdge("a", "b", 1)
	g.AddEdge("c", "b", 1)
	assert.True(t, g.IsWeaklyConnected())

	g.AddNode("lonely")
	assert.False(t, g.IsWeaklyConnected())
}

func TestTriangles(t *testing.T) {
	g := NewDirected()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("c", "a", 1) // triangle a-b-c regardless of direction
	g.AddEdge("a", "d", 1)

	tris := g.Triangles()
	assert.Len(t, tris, 1)
	assert.Equal(t, [3]string{"a", "b", "c"}, tris[0])
}

func TestDensityAndClustering(t *testing.T) {
	g := NewDirected()
	assert.Equal(t, 0.0, g.Density())
	assert.Equal(t, 0.0, g.AverageClustering())

	// Directed triangle: 3 of 6 possible edges.
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("c", "a", 1)
	assert.InDelta(t, 0.5, g.Density(), 1e-9)
	// Undirected view is a complete triangle.
	assert.InDelta(t, 1.0, g.AverageClustering(), 1e-9)
	assert.InDelta(t, 2.0, g.AverageDegree(), 1e-9)
}
