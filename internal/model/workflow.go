package model

import "time"

// WorkflowStep is one step of a workflow. Dependencies point at other steps
// of the same workflow ("dependency must finish before this step").
type WorkflowStep struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	ResponsibleID string   `json:"responsible_id,omitempty"`
	DurationHours float64  `json:"duration_hours,omitempty"`
	DependencyIDs []string `json:"dependency_ids,omitempty"`
}

// AddDependency records a "dep before this" edge. A step never depends on
// itself; duplicates are ignored.
func (s *WorkflowStep) AddDependency(stepID string) {
	if stepID == s.ID {
		return
	}
	for _, id := range s.DependencyIDs {
		if id == stepID {
			return
		}
	}
	s.DependencyIDs = append(s.DependencyIDs, stepID)
}

// Workflow is an ordered sequence of steps mined from recurring activity.
// Step order is insertion order; workflow-level dependencies are separate
// from step-level ones.
type Workflow struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	OwnerID       string          `json:"owner_id"`
	Steps         []*WorkflowStep `json:"steps"`
	Frequency     Frequency       `json:"frequency"`
	Priority      Priority        `json:"priority"`
	DependencyIDs []string        `json:"dependency_ids,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (w *Workflow) AddStep(step *WorkflowStep) {
	w.Steps = append(w.Steps, step)
	w.UpdatedAt = time.Now().UTC()
}

// AddDependency links another workflow that must run before this one.
func (w *Workflow) AddDependency(workflowID string) {
	if workflowID == w.ID {
		return
	}
	for _, id := range w.DependencyIDs {
		if id == workflowID {
			return
		}
	}
	w.DependencyIDs = append(w.DependencyIDs, workflowID)
	w.UpdatedAt = time.Now().UTC()
}

func (w *Workflow) TotalDuration() float64 {
	var total float64
	for _, s := range w.Steps {
		total += s.DurationHours
	}
	return total
}

// Step returns the step with the given ID, or nil.
func (w *Workflow) Step(id string) *WorkflowStep {
	for _, s := range w.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}
