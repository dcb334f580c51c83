package driver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/core/department"
	"github.com/agenthands/pulse/internal/model"
)

// Exporter mirrors analysis results into the graph store.
type Exporter struct {
	driver GraphDriver
	log    *zap.Logger
}

func NewExporter(driver GraphDriver, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{driver: driver, log: log}
}

// ExportDepartments writes the department graph snapshot plus the persons
// behind it. Nodes are merged by name, so repeated exports update in place.
func (e *Exporter) ExportDepartments(ctx context.Context, report *department.Report, people *model.Registry) error {
	if report == nil {
		return fmt.Errorf("report must not be nil")
	}
	now := time.Now().UTC().Format(time.RFC3339)

	nodes, edges := report.GraphSnapshot()
	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.Name] = struct{}{}
		if _, err := e.driver.ExecuteQuery(ctx, SaveDepartmentNodeQuery, map[string]interface{}{
			"name":                   n.Name,
			"size":                   n.Size,
			"internal_interactions":  n.InternalInteractions,
			"degree_centrality":      n.Centrality.DegreeCentrality,
			"betweenness_centrality": n.Centrality.BetweennessCentrality,
			"eigenvector_centrality": n.Centrality.EigenvectorCentrality,
			"updated_at":             now,
		}); err != nil {
			return fmt.Errorf("failed to save department %s: %w", n.Name, err)
		}
	}
	for _, edge := range edges {
		if _, err := e.driver.ExecuteQuery(ctx, SaveInteractionEdgeQuery, map[string]interface{}{
			"source":             edge.Source,
			"target":             edge.Target,
			"weight":             edge.Weight,
			"main_activity_type": string(edge.MainActivityType),
			"updated_at":         now,
		}); err != nil {
			return fmt.Errorf("failed to save edge %s->%s: %w", edge.Source, edge.Target, err)
		}
	}

	if people != nil {
		for _, p := range people.People() {
			if _, err := e.driver.ExecuteQuery(ctx, SavePersonNodeQuery, map[string]interface{}{
				"id":         p.ID,
				"name":       p.Name,
				"department": p.Department,
				"role":       p.Role,
				"email":      p.Email,
				"updated_at": now,
			}); err != nil {
				return fmt.Errorf("failed to save person %s: %w", p.ID, err)
			}
			// Membership edges only exist for departments the snapshot kept.
			if _, ok := known[p.Department]; !ok {
				continue
			}
			if _, err := e.driver.ExecuteQuery(ctx, SaveMembershipEdgeQuery, map[string]interface{}{
				"person_id":  p.ID,
				"department": p.Department,
				"updated_at": now,
			}); err != nil {
				return fmt.Errorf("failed to save membership for %s: %w", p.ID, err)
			}
		}
	}

	e.log.Info("department graph exported",
		zap.Int("departments", len(nodes)),
		zap.Int("edges", len(edges)))
	return nil
}

// ExportWorkflows writes workflows, their steps and step dependencies.
func (e *Exporter) ExportWorkflows(ctx context.Context, workflows []*model.Workflow) error {
	now := time.Now().UTC().Format(time.RFC3339)

	for _, wf := range workflows {
		if wf == nil {
			continue
		}
		if _, err := e.driver.ExecuteQuery(ctx, SaveWorkflowNodeQuery, map[string]interface{}{
			"id":         wf.ID,
			"name":       wf.Name,
			"owner_id":   wf.OwnerID,
			"frequency":  string(wf.Frequency),
			"priority":   string(wf.Priority),
			"updated_at": now,
		}); err != nil {
			return fmt.Errorf("failed to save workflow %s: %w", wf.ID, err)
		}

		for i, step := range wf.Steps {
			if _, err := e.driver.ExecuteQuery(ctx, SaveStepNodeQuery, map[string]interface{}{
				"id":             step.ID,
				"name":           step.Name,
				"description":    step.Description,
				"responsible_id": step.ResponsibleID,
				"duration_hours": step.DurationHours,
				"updated_at":     now,
			}); err != nil {
				return fmt.Errorf("failed to save step %s: %w", step.ID, err)
			}
			if _, err := e.driver.ExecuteQuery(ctx, SaveHasStepEdgeQuery, map[string]interface{}{
				"workflow_id": wf.ID,
				"step_id":     step.ID,
				"position":    i,
				"updated_at":  now,
			}); err != nil {
				return fmt.Errorf("failed to link step %s: %w", step.ID, err)
			}
		}
		for _, step := range wf.Steps {
			for _, dep := range step.DependencyIDs {
				if _, err := e.driver.ExecuteQuery(ctx, SaveStepDependencyEdgeQuery, map[string]interface{}{
					"step_id":       step.ID,
					"dependency_id": dep,
					"updated_at":    now,
				}); err != nil {
					return fmt.Errorf("failed to save dependency %s->%s: %w", step.ID, dep, err)
				}
			}
		}
	}

	e.log.Info("workflows exported", zap.Int("workflows", len(workflows)))
	return nil
}
