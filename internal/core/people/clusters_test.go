package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/pulse/internal/model"
)

func linked(reg *model.Registry, a, b string) {
	pa, ok := reg.Get(a)
	if !ok {
		pa = &model.Person{ID: a, Name: a}
		reg.Add(pa)
	}
	pb, ok := reg.Get(b)
	if !ok {
		pb = &model.Person{ID: b, Name: b}
		reg.Add(pb)
	}
	pa.AddCollaborator(b)
	pb.AddCollaborator(a)
}

func TestDetectTeamClustersTwoCliques(t *testing.T) {
	pr := NewProfiler(nil)
	reg := model.NewRegistry()

	// Two triangles joined by nothing.
	linked(reg, "a1", "a2")
	linked(reg, "a2", "a3")
	linked(reg, "a1", "a3")
	linked(reg, "b1", "b2")
	linked(reg, "b2", "b3")
	linked(reg, "b1", "b3")

	clusters := pr.DetectTeamClusters(reg)
	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"a1", "a2", "a3"}, clusters[0])
	assert.Equal(t, []string{"b1", "b2", "b3"}, clusters[1])
}

func TestDetectTeamClustersDropsSingletons(t *testing.T) {
	pr := NewProfiler(nil)
	reg := model.NewRegistry()
	reg.Add(&model.Person{ID: "loner", Name: "Loner"})
	linked(reg, "x", "y")

	clusters := pr.DetectTeamClusters(reg)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"x", "y"}, clusters[0])
}

func TestDetectTeamClustersEmpty(t *testing.T) {
	pr := NewProfiler(nil)
	assert.Nil(t, pr.DetectTeamClusters(model.NewRegistry()))
}

func TestDetectTeamClustersDeterministic(t *testing.T) {
	build := func() *model.Registry {
		reg := model.NewRegistry()
		linked(reg, "a", "b")
		linked(reg, "b", "c")
		linked(reg, "c", "d")
		linked(reg, "d", "a")
		return reg
	}
	pr := NewProfiler(nil)
	assert.Equal(t, pr.DetectTeamClusters(build()), pr.DetectTeamClusters(build()))
}
