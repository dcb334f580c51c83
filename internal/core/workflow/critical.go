package workflow

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/graph"
	"github.com/agenthands/pulse/internal/model"
)

const (
	// criticalLoadThreshold flags critical-path steps whose load factor
	// (duration times dependencies-plus-one) exceeds it.
	criticalLoadThreshold = 5.0
	// unassignedDurationThreshold flags ownerless steps longer than this.
	unassignedDurationThreshold = 2.0
	// dependencyCountThreshold flags steps with more upstream dependencies.
	dependencyCountThreshold = 3
)

// CriticalPath returns the set of step IDs on the workflow's longest
// duration-weighted dependency chain. A dependency cycle is logged and
// yields an empty set rather than an error.
func (a *Analyzer) CriticalPath(wf *model.Workflow) map[string]struct{} {
	critical := make(map[string]struct{})
	if wf == nil || len(wf.Steps) == 0 {
		return critical
	}

	g := graph.NewDirected()
	durations := make(map[string]float64, len(wf.Steps))
	for _, step := range wf.Steps {
		g.AddNode(step.ID)
		durations[step.ID] = step.DurationHours
	}
	for _, step := range wf.Steps {
		for _, dep := range step.DependencyIDs {
			if g.HasNode(dep) {
				g.AddEdge(dep, step.ID, 1)
			}
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		if errors.Is(err, graph.ErrCycle) {
			a.log.Warn("workflow has a dependency cycle, no critical path",
				zap.String("workflow", wf.ID))
			return critical
		}
		a.log.Warn("critical path aborted", zap.String("workflow", wf.ID), zap.Error(err))
		return critical
	}

	// Longest accumulated duration ending at each step.
	acc := make(map[string]float64, len(order))
	for _, id := range order {
		best := 0.0
		for _, pred := range g.Predecessors(id) {
			if acc[pred] > best {
				best = acc[pred]
			}
		}
		acc[id] = best + durations[id]
	}

	maxAcc := 0.0
	for _, v := range acc {
		if v > maxAcc {
			maxAcc = v
		}
	}

	// Walk back from every chain end, keeping predecessors that account for
	// the accumulated duration exactly.
	var stack []string
	for _, id := range order {
		if acc[id] == maxAcc {
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := critical[id]; seen {
			continue
		}
		critical[id] = struct{}{}
		for _, pred := range g.Predecessors(id) {
			if acc[pred]+durations[id] == acc[id] {
				stack = append(stack, pred)
			}
		}
	}
	return critical
}

// StepBottleneck is one flagged workflow step, heaviest load first in the
// analyzer output.
type StepBottleneck struct {
	WorkflowID      string   `json:"workflow_id"`
	WorkflowName    string   `json:"workflow_name"`
	StepID          string   `json:"step_id"`
	StepName        string   `json:"step_name"`
	Responsible     string   `json:"responsible"`
	DurationHours   float64  `json:"duration_hours"`
	DependencyCount int      `json:"dependency_count"`
	IsCritical      bool     `json:"is_critical"`
	LoadFactor      float64  `json:"load_factor"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeBottlenecks flags overloaded steps across the given workflows: a
// critical step with a high load factor, an unassigned long step, or a step
// with too many dependencies.
func (a *Analyzer) AnalyzeBottlenecks(workflows []*model.Workflow, people *model.Registry) []StepBottleneck {
	out := []StepBottleneck{}
	for _, wf := range workflows {
		if wf == nil {
			continue
		}
		critical := a.CriticalPath(wf)

		for _, step := range wf.Steps {
			_, onPath := critical[step.ID]
			assigned := step.ResponsibleID != ""
			depCount := len(step.DependencyIDs)
			load := step.DurationHours * float64(depCount+1)

			flagged := (onPath && load > criticalLoadThreshold) ||
				(!assigned && step.DurationHours > unassignedDurationThreshold) ||
				depCount > dependencyCountThreshold
			if !flagged {
				continue
			}

			out = append(out, StepBottleneck{
				WorkflowID:      wf.ID,
				WorkflowName:    wf.Name,
				StepID:          step.ID,
				StepName:        step.Name,
				Responsible:     responsibleName(step.ResponsibleID, people),
				DurationHours:   step.DurationHours,
				DependencyCount: depCount,
				IsCritical:      onPath,
				LoadFactor:      load,
				Recommendations: stepRecommendations(step, onPath, load, assigned),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LoadFactor != out[j].LoadFactor {
			return out[i].LoadFactor > out[j].LoadFactor
		}
		if out[i].WorkflowID != out[j].WorkflowID {
			return out[i].WorkflowID < out[j].WorkflowID
		}
		return out[i].StepID < out[j].StepID
	})
	return out
}

func responsibleName(id string, people *model.Registry) string {
	if id == "" {
		return "unassigned"
	}
	if people != nil {
		if p, ok := people.Get(id); ok {
			return p.Name
		}
	}
	return id
}

func stepRecommendations(step *model.WorkflowStep, onPath bool, load float64, assigned bool) []string {
	var recs []string
	if !assigned {
		recs = append(recs, "assign an owner to this step")
	}
	if step.DurationHours > 4 {
		recs = append(recs, "split this step into smaller tasks")
	}
	if len(step.DependencyIDs) > 2 {
		recs = append(recs, "check whether upstream steps can run in parallel")
	}
	if onPath && load > criticalLoadThreshold {
		recs = append(recs, "review how this workflow is prioritized")
	}
	if len(recs) == 0 {
		recs = append(recs, "consider automating routine parts of this step")
	}
	return recs
}
