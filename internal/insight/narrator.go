package insight

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agenthands/pulse/internal/config"
	"github.com/agenthands/pulse/internal/core/department"
	"github.com/agenthands/pulse/internal/core/workflow"
	"github.com/agenthands/pulse/internal/llm"
	"github.com/agenthands/pulse/internal/model"
)

const defaultDepartmentsPrompt = `You are an organizational analyst. Below is a JSON report of
cross-department interaction analysis: centrality metrics, detected
bottlenecks and graph-level statistics.

%s

Respond with a JSON object of the form
{"summary": "...", "insights": ["...", "..."]}
where summary is a short paragraph on the organization's communication
structure and insights lists three to five concrete observations or
recommended actions.`

const defaultWorkflowsPrompt = `You are an organizational analyst. Below is a JSON report of mined
workflows and their step-level bottlenecks.

%s

Respond with a JSON object of the form
{"summary": "...", "insights": ["...", "..."]}
where summary is a short paragraph on how work moves through these
workflows and insights lists three to five concrete observations or
recommended actions.`

// Narrative is the structured response the narrator asks the model for. A
// response that fails to parse is kept verbatim in Summary.
type Narrative struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}

// Narrator turns analysis reports into prose via an LLM.
type Narrator struct {
	LLM     llm.Client
	Prompts config.InsightPrompts
}

func NewNarrator(client llm.Client, prompts config.InsightPrompts) *Narrator {
	if prompts.Departments == "" {
		prompts.Departments = defaultDepartmentsPrompt
	}
	if prompts.Workflows == "" {
		prompts.Workflows = defaultWorkflowsPrompt
	}
	return &Narrator{LLM: client, Prompts: prompts}
}

// NarrateDepartments summarizes a department analysis report. Only the
// judgment-relevant slices of the report go into the prompt.
func (n *Narrator) NarrateDepartments(ctx context.Context, report *department.Report) (*Narrative, error) {
	if report == nil {
		return nil, fmt.Errorf("report must not be nil")
	}

	digest := map[string]any{
		"centrality_metrics":     report.Centrality,
		"bottleneck_departments": report.Bottlenecks,
		"graph_metrics":          report.Metrics,
		"collaboration_patterns": report.CollaborationPatterns(),
	}
	return n.narrate(ctx, n.Prompts.Departments, digest)
}

// NarrateWorkflows summarizes mined workflows and their bottlenecks.
func (n *Narrator) NarrateWorkflows(ctx context.Context, workflows []*model.Workflow, bottlenecks []workflow.StepBottleneck) (*Narrative, error) {
	digest := map[string]any{
		"workflows":   workflows,
		"bottlenecks": bottlenecks,
	}
	return n.narrate(ctx, n.Prompts.Workflows, digest)
}

func (n *Narrator) narrate(ctx context.Context, promptTemplate string, digest map[string]any) (*Narrative, error) {
	payload, err := json.Marshal(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report digest: %w", err)
	}

	response, err := n.LLM.Generate(ctx, fmt.Sprintf(promptTemplate, payload))
	if err != nil {
		return nil, fmt.Errorf("failed to generate narrative: %w", err)
	}

	result, err := parseJSON[Narrative](response)
	if err != nil {
		// Free-text answers still carry value; keep them as the summary.
		return &Narrative{Summary: response}, nil
	}
	return &result, nil
}
