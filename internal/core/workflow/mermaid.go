package workflow

import (
	"fmt"
	"strings"

	"github.com/agenthands/pulse/internal/model"
)

// MermaidFlow renders a workflow as a mermaid left-to-right flowchart. Steps
// are numbered S0..Sn-1 in order; solid arrows are real dependencies, dashed
// ones chain otherwise-unconnected entry steps so the diagram stays readable.
func MermaidFlow(wf *model.Workflow, people *model.Registry) string {
	if wf == nil || len(wf.Steps) == 0 {
		return "```mermaid\ngraph LR\n    NoSteps[\"no steps\"]\n```"
	}

	lines := []string{"```mermaid", "graph LR"}
	index := make(map[string]int, len(wf.Steps))
	for i, step := range wf.Steps {
		index[step.ID] = i
	}

	for i, step := range wf.Steps {
		label := escapeLabel(step.Name)
		if name := responsibleName(step.ResponsibleID, people); name != "unassigned" {
			label += fmt.Sprintf("\\n(%s)", escapeLabel(name))
		}
		label += fmt.Sprintf("\\n%gh", step.DurationHours)
		lines = append(lines, fmt.Sprintf("    S%d[\"%s\"]", i, label))
	}

	var roots []int
	for i, step := range wf.Steps {
		if len(step.DependencyIDs) == 0 {
			roots = append(roots, i)
		}
		for _, dep := range step.DependencyIDs {
			if j, ok := index[dep]; ok {
				lines = append(lines, fmt.Sprintf("    S%d --> S%d", j, i))
			}
		}
	}
	for i := 1; i < len(roots); i++ {
		lines = append(lines, fmt.Sprintf("    S%d -.-> S%d", roots[i-1], roots[i]))
	}

	lines = append(lines, "```")
	return strings.Join(lines, "\n")
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `'`)
}
