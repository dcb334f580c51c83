package department

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/pulse/internal/graph"
	"github.com/agenthands/pulse/internal/model"
)

func newTestGraph(nodes ...string) *graph.Directed {
	g := graph.NewDirected()
	for _, n := range nodes {
		g.AddNode(n)
	}
	return g
}

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func registryWith(people ...*model.Person) *model.Registry {
	reg := model.NewRegistry()
	for _, p := range people {
		reg.Add(p)
	}
	return reg
}

func person(id, dept string) *model.Person {
	return &model.Person{
		ID:         id,
		Name:       "Person " + id,
		Department: dept,
		Email:      id + "@example.com",
	}
}

func activity(id string, typ model.ActivityType, ts time.Time, participantIDs ...string) model.Activity {
	return model.Activity{
		ID:             id,
		Type:           typ,
		Timestamp:      ts,
		Content:        "content of " + id,
		ParticipantIDs: participantIDs,
	}
}

// pairActivities produces n identical-pair activities spaced two days apart.
func pairActivities(prefix string, n int, typ model.ActivityType, ids ...string) []model.Activity {
	var out []model.Activity
	for i := 0; i < n; i++ {
		out = append(out, activity(
			fmt.Sprintf("%s_%d", prefix, i), typ, base.AddDate(0, 0, i*2), ids...))
	}
	return out
}

func TestAnalyzeNilInput(t *testing.T) {
	a := NewAnalyzer(Config{}, nil)

	_, err := a.Analyze(nil, model.NewRegistry())
	var analysisErr *AnalysisError
	assert.ErrorAs(t, err, &analysisErr)

	_, err = a.Analyze([]model.Activity{}, nil)
	assert.ErrorAs(t, err, &analysisErr)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	a := NewAnalyzer(Config{}, nil)
	report, err := a.Analyze([]model.Activity{}, model.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Metrics.NodeCount)
	assert.Equal(t, 0, report.Metrics.EdgeCount)
	assert.Equal(t, 0.0, report.Metrics.Density)
	assert.False(t, report.Metrics.IsConnected)
	assert.Empty(t, report.Interactions)
	assert.Empty(t, report.Flows)
	assert.Empty(t, report.CrossFunctional)
	assert.Empty(t, report.Centrality)
	assert.Empty(t, report.Bottlenecks)
	assert.Empty(t, report.InformationPaths)
}

// Three departments: A-B five shared activities, A-C three, B-C none.
// Threshold two keeps both edges and A dominates on degree centrality.
func TestAnalyzeThreeDepartments(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"), person("pc", "C"))
	acts := pairActivities("ab", 5, model.ActivityMeeting, "pa", "pb")
	acts = append(acts, pairActivities("ac", 3, model.ActivityEmail, "pa", "pc")...)

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Metrics.NodeCount)
	assert.Equal(t, 2, report.Metrics.EdgeCount)
	assert.True(t, report.graph.g.HasEdge("A", "B"))
	assert.Equal(t, 5.0, report.graph.g.Weight("A", "B"))
	assert.True(t, report.graph.g.HasEdge("A", "C"))
	assert.Equal(t, 3.0, report.graph.g.Weight("A", "C"))
	assert.False(t, report.graph.g.HasEdge("B", "C"))
	assert.False(t, report.graph.g.HasEdge("C", "B"))

	assert.Greater(t, report.Centrality["A"].DegreeCentrality, report.Centrality["B"].DegreeCentrality)
	assert.Greater(t, report.Centrality["A"].DegreeCentrality, report.Centrality["C"].DegreeCentrality)
}

func TestAnalyzeThresholdExcludesRarePairs(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"), person("pc", "C"))
	acts := pairActivities("ab", 5, model.ActivityMeeting, "pa", "pb")
	// One-off A-C contact stays below the threshold.
	acts = append(acts, activity("ac_once", model.ActivityEmail, base, "pa", "pc"))

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	assert.False(t, report.graph.g.HasEdge("A", "C"))
	// The aggregation still saw the pair even though no edge materialized.
	assert.Equal(t, 1, report.Interactions["A|C"].Count)
}

func TestCollaborationMatrixTotals(t *testing.T) {
	reg := registryWith(
		person("pa1", "A"), person("pa2", "A"),
		person("pb", "B"), person("pc", "C"))
	acts := pairActivities("ab", 4, model.ActivityMeeting, "pa1", "pb")
	acts = append(acts, pairActivities("ac", 3, model.ActivityEmail, "pa1", "pc")...)
	// Intra-department interactions land on the diagonal, not on edges.
	acts = append(acts, pairActivities("aa", 3, model.ActivityChat, "pa1", "pa2")...)

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	cm := report.CollaborationMatrix()
	assert.Equal(t, []string{"A", "B", "C"}, cm.Departments)
	assert.Equal(t, 3, cm.Matrix["A"]["A"])
	assert.Equal(t, 4, cm.Matrix["A"]["B"])
	assert.Equal(t, 3, cm.Matrix["A"]["C"])
	assert.Equal(t, 0, cm.Matrix["B"]["C"])

	sum := 0
	for _, u := range report.graph.g.Nodes() {
		for _, v := range report.graph.g.Successors(u) {
			sum += int(report.graph.g.Weight(u, v))
		}
	}
	assert.Equal(t, sum, cm.TotalInteractions)
	assert.Equal(t, 7, cm.TotalInteractions)
}

func TestCollaborationPatternsHubAndIsolated(t *testing.T) {
	reg := registryWith(
		person("pa", "A"), person("pb", "B"),
		person("pc", "C"), person("pd", "D"))
	acts := pairActivities("ab", 3, model.ActivityMeeting, "pa", "pb")
	acts = append(acts, pairActivities("ac", 3, model.ActivityEmail, "pa", "pc")...)
	acts = append(acts, pairActivities("ad", 12, model.ActivityEmail, "pa", "pd")...)

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	patterns := report.CollaborationPatterns()

	var hubs, isolated, strong []CollaborationPattern
	for _, p := range patterns {
		switch p.Type {
		case "hub department":
			hubs = append(hubs, p)
		case "isolated department":
			isolated = append(isolated, p)
		case "strong collaboration pair":
			strong = append(strong, p)
		}
	}

	// A connects to 3 of 4 departments, well past the 50% bar.
	require.NotEmpty(t, hubs)
	assert.Equal(t, "A", hubs[0].Department)

	// B, C and D each touch only A.
	assert.Len(t, isolated, 3)

	// The A-D edge carries weight 12, above the default threshold of 10.
	require.Len(t, strong, 1)
	assert.Equal(t, []string{"A", "D"}, strong[0].Departments)
	assert.Equal(t, 12, strong[0].Metrics["interaction_count"])
}

func TestTrianglePattern(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"), person("pc", "C"))
	acts := pairActivities("ab", 3, model.ActivityMeeting, "pa", "pb")
	acts = append(acts, pairActivities("bc", 3, model.ActivityMeeting, "pb", "pc")...)
	acts = append(acts, pairActivities("ac", 3, model.ActivityMeeting, "pa", "pc")...)

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	var triangles []CollaborationPattern
	for _, p := range report.CollaborationPatterns() {
		if p.Type == "triangle collaboration" {
			triangles = append(triangles, p)
		}
	}
	require.Len(t, triangles, 1)
	assert.Equal(t, []string{"A", "B", "C"}, triangles[0].Departments)
}

func TestBottleneckScoring(t *testing.T) {
	// Directly exercise the rule table: betweenness 0.4 plus degree 0.6 on a
	// three-person team fires both the intermediary and small-team rules.
	dg := &deptGraph{size: map[string]int{"Ops": 3}}
	dg.g = newTestGraph("Ops")

	metrics := map[string]Centrality{
		"Ops": {
			DegreeCentrality:      0.6,
			BetweennessCentrality: 0.4,
			InDegree:              2,
			OutDegree:             2,
		},
	}
	out := dg.bottlenecks(metrics)
	require.Len(t, out, 1)
	assert.Equal(t, "Ops", out[0].Department)
	assert.GreaterOrEqual(t, out[0].Score, 5)
	assert.Contains(t, out[0].Reasons, "intermediary for many cross-department flows")
	assert.Contains(t, out[0].Reasons, "small team serving many departments")
	assert.NotEmpty(t, out[0].Recommendations)
}

func TestBottleneckInboundConcentration(t *testing.T) {
	dg := &deptGraph{size: map[string]int{"IT": 20}}
	dg.g = newTestGraph("IT")

	metrics := map[string]Centrality{
		"IT": {InDegree: 4, OutDegree: 2},
	}
	out := dg.bottlenecks(metrics)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Score)
	assert.Equal(t, []string{"inbound request concentration"}, out[0].Reasons)
}

func TestInformationPathsIndirectAndUnreachable(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"), person("pc", "C"))
	// Chain A->B->C (canonical pair ordering makes both edges point "up").
	acts := pairActivities("ab", 3, model.ActivityMeeting, "pa", "pb")
	acts = append(acts, pairActivities("bc", 3, model.ActivityMeeting, "pb", "pc")...)

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	var indirect, unreachable int
	for _, p := range report.InformationPaths {
		if p.Path != nil {
			indirect++
			assert.Equal(t, []string{"A", "B", "C"}, p.Path)
			assert.Equal(t, []string{"B"}, p.Intermediaries)
			assert.Equal(t, 6.0, p.TotalWeight)
		} else {
			unreachable++
			assert.NotEmpty(t, p.Note)
		}
	}
	assert.Equal(t, 1, indirect)
	// Everything pointing against edge direction is unreachable: B->A, C->A,
	// C->B.
	assert.Equal(t, 3, unreachable)

	// Reachable paths sort before unreachable ones.
	assert.NotNil(t, report.InformationPaths[0].Path)
}

func TestInformationPathJSONInfinity(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"), person("pc", "C"))
	acts := pairActivities("ab", 3, model.ActivityMeeting, "pa", "pb")
	acts = append(acts, pairActivities("bc", 3, model.ActivityMeeting, "pb", "pc")...)

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"length":"inf"`)
}

func TestCommunicationFlows(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"))
	acts := []model.Activity{
		activity("mail", model.ActivityEmail, base, "pa", "pb"),
		activity("meet", model.ActivityMeeting, base.Add(2*time.Hour), "pa", "pb"),
		activity("doc", model.ActivityDocument, base.Add(5*time.Hour), "pa"),
	}

	a := NewAnalyzer(Config{MinInteractionCount: 1}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	require.NotEmpty(t, report.Flows)
	first := report.Flows[0]
	assert.Equal(t, "mail", first.SourceActivityID)
	assert.Equal(t, "meet", first.TargetActivityID)
	assert.Equal(t, "coordination flow", first.FlowType)
	assert.Equal(t, 2.0, first.TimeDifferenceHours)
	assert.Equal(t, []string{"A", "B"}, first.CommonDepartments)
}

func TestFlowIgnoresDistantFollowUps(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"))
	acts := []model.Activity{
		activity("mail", model.ActivityEmail, base, "pa", "pb"),
		// Two days later: outside the 24h window.
		activity("meet", model.ActivityMeeting, base.Add(48*time.Hour), "pa", "pb"),
	}

	a := NewAnalyzer(Config{MinInteractionCount: 1}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)
	assert.Empty(t, report.Flows)
}

func TestFlowScanWindowBound(t *testing.T) {
	reg := registryWith(person("pa", "A"), person("pb", "B"), person("pc", "C"))

	// An email, n unrelated chats, then a matching meeting two hours later.
	mk := func(n int) []model.Activity {
		acts := []model.Activity{activity("mail", model.ActivityEmail, base, "pa", "pb")}
		for i := 0; i < n; i++ {
			acts = append(acts, activity(fmt.Sprintf("chat_%d", i), model.ActivityChat,
				base.Add(time.Duration(i+1)*time.Minute), "pc"))
		}
		return append(acts, activity("meet", model.ActivityMeeting, base.Add(2*time.Hour), "pa", "pb"))
	}

	a := NewAnalyzer(Config{MinInteractionCount: 1}, nil)

	// Follow-up in ninth position: still scanned.
	report, err := a.Analyze(mk(8), reg)
	require.NoError(t, err)
	require.Len(t, report.Flows, 1)
	assert.Equal(t, "meet", report.Flows[0].TargetActivityID)

	// One filler more pushes it past the scan window.
	report, err = a.Analyze(mk(9), reg)
	require.NoError(t, err)
	assert.Empty(t, report.Flows)
}

func TestClassifyFlowType(t *testing.T) {
	assert.Equal(t, "coordination flow", classifyFlowType(model.ActivityEmail, model.ActivityMeeting))
	assert.Equal(t, "decision documentation", classifyFlowType(model.ActivityMeeting, model.ActivityDocument))
	assert.Equal(t, "document sharing", classifyFlowType(model.ActivityDocument, model.ActivityEmail))
	assert.Equal(t, "chain of email", classifyFlowType(model.ActivityEmail, model.ActivityEmail))
	assert.Equal(t, "generic flow", classifyFlowType(model.ActivityChat, model.ActivityTask))
}

func TestCrossFunctionalActivities(t *testing.T) {
	reg := registryWith(
		person("pa", "A"), person("pb", "B"),
		person("pc", "C"), person("pd", "D"))
	acts := []model.Activity{
		activity("big", model.ActivityMeeting, base, "pa", "pb", "pc", "pd"),
		activity("small", model.ActivityMeeting, base, "pa", "pb", "pc"),
		activity("pair", model.ActivityMeeting, base, "pa", "pb"),
	}

	a := NewAnalyzer(Config{MinInteractionCount: 1}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	require.Len(t, report.CrossFunctional, 2)
	// Sorted by complexity: 4 depts x 4 people beats 3 x 3.
	assert.Equal(t, "big", report.CrossFunctional[0].ActivityID)
	assert.Equal(t, 16, report.CrossFunctional[0].ComplexityScore)
	assert.Equal(t, "small", report.CrossFunctional[1].ActivityID)
	assert.Equal(t, 9, report.CrossFunctional[1].ComplexityScore)
}

func TestAnalyzeDeterminism(t *testing.T) {
	reg := registryWith(
		person("pa", "A"), person("pb", "B"),
		person("pc", "C"), person("pd", "D"))
	acts := pairActivities("ab", 4, model.ActivityMeeting, "pa", "pb")
	acts = append(acts, pairActivities("bc", 4, model.ActivityEmail, "pb", "pc")...)
	acts = append(acts, pairActivities("cd", 4, model.ActivityChat, "pc", "pd")...)
	acts = append(acts, activity("all", model.ActivityMeeting, base, "pa", "pb", "pc", "pd"))

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	first, err := a.Analyze(acts, reg)
	require.NoError(t, err)
	second, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Centrality, second.Centrality)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestMermaidNetwork(t *testing.T) {
	reg := registryWith(person("pa", "Customer Success"), person("pb", "B"))
	acts := pairActivities("ab", 7, model.ActivityMeeting, "pa", "pb")

	a := NewAnalyzer(Config{MinInteractionCount: 2}, nil)
	report, err := a.Analyze(acts, reg)
	require.NoError(t, err)

	diagram := report.MermaidNetwork()
	assert.True(t, len(diagram) > 0)
	assert.Contains(t, diagram, "```mermaid\ngraph LR")
	// Spaces in names are not legal node ids.
	assert.Contains(t, diagram, "Customer_Success[\"Customer Success\\n(1 people)\"]")
	assert.Contains(t, diagram, "style Customer_Success fill:#ccffcc")
	// Weight 7 is above the labeling threshold.
	assert.Contains(t, diagram, "B -->|7| Customer_Success")
	assert.Contains(t, diagram, "\n```")
}

func TestMermaidNetworkEmpty(t *testing.T) {
	a := NewAnalyzer(Config{}, nil)
	report, err := a.Analyze([]model.Activity{}, model.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "```mermaid\ngraph LR\n    NoData[\"no data\"]\n```", report.MermaidNetwork())
}
