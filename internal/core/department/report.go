package department

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agenthands/pulse/internal/model"
)

// Interaction aggregates every activity in which two departments (or two
// members of the same department, for the diagonal) co-occurred.
type Interaction struct {
	Departments   [2]string                  `json:"departments"`
	Count         int                        `json:"count"`
	ActivityIDs   []string                   `json:"activities"`
	Participants  []string                   `json:"participants"`
	ActivityTypes map[model.ActivityType]int `json:"activity_types"`

	participants map[string]struct{}
}

// MainActivityType is the most frequent contributing activity type,
// tie-broken alphabetically.
func (i *Interaction) MainActivityType() model.ActivityType {
	var best model.ActivityType
	bestCount := -1
	types := make([]string, 0, len(i.ActivityTypes))
	for t := range i.ActivityTypes {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		if c := i.ActivityTypes[model.ActivityType(t)]; c > bestCount {
			best = model.ActivityType(t)
			bestCount = c
		}
	}
	return best
}

// Flow is one inferred hand-off between two temporally adjacent activities
// that share at least one department.
type Flow struct {
	ID                  string   `json:"id"`
	SourceActivityID    string   `json:"source_activity_id"`
	TargetActivityID    string   `json:"target_activity_id"`
	SourceDepartments   []string `json:"source_departments"`
	TargetDepartments   []string `json:"target_departments"`
	CommonDepartments   []string `json:"common_departments"`
	TimeDifferenceHours float64  `json:"time_difference_hours"`
	FlowType            string   `json:"flow_type"`
}

// CrossFunctional marks an activity whose participants span three or more
// departments.
type CrossFunctional struct {
	ActivityID         string              `json:"activity_id"`
	ActivityType       model.ActivityType  `json:"activity_type"`
	Timestamp          time.Time           `json:"timestamp"`
	Departments        []string            `json:"departments"`
	ParticipantCount   int                 `json:"participant_count"`
	ParticipantsByDept map[string][]string `json:"participants_by_dept"`
	ComplexityScore    int                 `json:"complexity_score"`
	Tags               []string            `json:"tags,omitempty"`
}

// Centrality is the per-department metric record.
type Centrality struct {
	DegreeCentrality      float64 `json:"degree_centrality"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	EigenvectorCentrality float64 `json:"eigenvector_centrality"`
	InDegree              int     `json:"in_degree"`
	OutDegree             int     `json:"out_degree"`
	TotalInteractions     float64 `json:"total_interactions"`
}

// InformationPath is the shortest route between two departments that are not
// directly connected. Unreachable pairs are reported with an infinite length
// rather than omitted.
type InformationPath struct {
	Source         string   `json:"source"`
	Target         string   `json:"target"`
	Path           []string `json:"path"`
	Length         float64  `json:"-"`
	Intermediaries []string `json:"intermediary_departments,omitempty"`
	TotalWeight    float64  `json:"total_weight,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// MarshalJSON encodes the length as a number, or the string "inf" for
// unreachable pairs, since JSON has no infinity literal.
func (p InformationPath) MarshalJSON() ([]byte, error) {
	type alias InformationPath
	var length interface{} = p.Length
	if math.IsInf(p.Length, 1) {
		length = "inf"
	}
	return json.Marshal(struct {
		alias
		Length interface{} `json:"length"`
	}{alias(p), length})
}

// Bottleneck scores a department against the three structural heuristics.
type Bottleneck struct {
	Department      string     `json:"department"`
	Score           int        `json:"bottleneck_score"`
	Reasons         []string   `json:"reasons"`
	Metrics         Centrality `json:"metrics"`
	Recommendations []string   `json:"recommendations"`
}

// GraphMetrics describes the materialized graph as a whole.
// EigenvectorConverged distinguishes "all zeros because power iteration gave
// up" from a true zero score.
type GraphMetrics struct {
	NodeCount             int     `json:"node_count"`
	EdgeCount             int     `json:"edge_count"`
	Density               float64 `json:"density"`
	IsConnected           bool    `json:"is_connected"`
	AverageDegree         float64 `json:"average_degree"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
	EigenvectorConverged  bool    `json:"eigenvector_converged"`
}

// Report is the full department analysis output. It owns an immutable graph
// snapshot built during Analyze; matrix, pattern and diagram accessors read
// from that snapshot.
type Report struct {
	Interactions     map[string]*Interaction `json:"department_interactions"`
	Flows            []Flow                  `json:"communication_flows"`
	CrossFunctional  []CrossFunctional       `json:"cross_functional_activities"`
	Centrality       map[string]Centrality   `json:"centrality_metrics"`
	InformationPaths []InformationPath       `json:"information_paths"`
	Bottlenecks      []Bottleneck            `json:"bottleneck_departments"`
	Metrics          GraphMetrics            `json:"graph_metrics"`

	graph *deptGraph
}

// CollaborationMatrix is the department-by-department interaction count
// table. The diagonal holds intra-department interaction counts.
type CollaborationMatrix struct {
	Departments       []string                  `json:"departments"`
	Matrix            map[string]map[string]int `json:"matrix"`
	TotalInteractions int                       `json:"total_interactions"`
}

// CollaborationMatrix builds the matrix from the graph snapshot. The matrix
// follows edge direction: the count sits on the canonical (sorted) pair.
func (r *Report) CollaborationMatrix() CollaborationMatrix {
	cm := CollaborationMatrix{Matrix: make(map[string]map[string]int)}
	if r.graph == nil || r.graph.g.NodeCount() == 0 {
		cm.Departments = []string{}
		return cm
	}

	cm.Departments = r.graph.g.Nodes()
	for _, d1 := range cm.Departments {
		row := make(map[string]int, len(cm.Departments))
		for _, d2 := range cm.Departments {
			switch {
			case d1 == d2:
				row[d2] = r.graph.internal[d1]
			case r.graph.g.HasEdge(d1, d2):
				row[d2] = int(r.graph.g.Weight(d1, d2))
			default:
				row[d2] = 0
			}
		}
		cm.Matrix[d1] = row
	}

	for _, u := range cm.Departments {
		for _, v := range r.graph.g.Successors(u) {
			cm.TotalInteractions += int(r.graph.g.Weight(u, v))
		}
	}
	return cm
}

// DepartmentNode is one department in the exported graph snapshot.
type DepartmentNode struct {
	Name                 string     `json:"name"`
	Size                 int        `json:"size"`
	InternalInteractions int        `json:"internal_interactions"`
	Centrality           Centrality `json:"centrality"`
}

// DepartmentEdge is one directed interaction edge in the snapshot.
type DepartmentEdge struct {
	Source           string             `json:"source"`
	Target           string             `json:"target"`
	Weight           int                `json:"weight"`
	MainActivityType model.ActivityType `json:"main_activity_type"`
}

// GraphSnapshot returns the materialized graph as plain node and edge lists,
// both sorted, for export to external stores.
func (r *Report) GraphSnapshot() ([]DepartmentNode, []DepartmentEdge) {
	if r.graph == nil {
		return nil, nil
	}
	nodes := make([]DepartmentNode, 0, r.graph.g.NodeCount())
	var edges []DepartmentEdge
	for _, d := range r.graph.g.Nodes() {
		nodes = append(nodes, DepartmentNode{
			Name:                 d,
			Size:                 r.graph.size[d],
			InternalInteractions: r.graph.internal[d],
			Centrality:           r.Centrality[d],
		})
		for _, v := range r.graph.g.Successors(d) {
			edges = append(edges, DepartmentEdge{
				Source:           d,
				Target:           v,
				Weight:           int(r.graph.g.Weight(d, v)),
				MainActivityType: r.graph.edges[[2]string{d, v}].mainType,
			})
		}
	}
	return nodes, edges
}

// CollaborationPattern is a human-readable structural finding: hub or
// isolated departments, strong pairs, triangles.
type CollaborationPattern struct {
	Type           string                 `json:"type"`
	Department     string                 `json:"department,omitempty"`
	Departments    []string               `json:"departments,omitempty"`
	Description    string                 `json:"description"`
	Recommendation string                 `json:"recommendation,omitempty"`
	Metrics        map[string]interface{} `json:"metrics,omitempty"`
}

// CollaborationPatterns classifies the snapshot's structure. Rules run in a
// fixed order: hubs, isolated departments, strong pairs, triangles.
func (r *Report) CollaborationPatterns() []CollaborationPattern {
	var patterns []CollaborationPattern
	if r.graph == nil {
		return patterns
	}
	g := r.graph.g

	for _, hub := range r.graph.hubDepartments() {
		patterns = append(patterns, CollaborationPattern{
			Type:       "hub department",
			Department: hub.Department,
			Description: fmt.Sprintf("%s works with %d departments and plays a central role",
				hub.Department, hub.ConnectedDepartments),
			Metrics: map[string]interface{}{
				"connected_departments": hub.ConnectedDepartments,
				"total_interactions":    hub.TotalInteractions,
				"department_size":       hub.Size,
			},
		})
	}

	for _, dept := range r.graph.isolatedDepartments() {
		patterns = append(patterns, CollaborationPattern{
			Type:           "isolated department",
			Department:     dept,
			Description:    fmt.Sprintf("%s has little contact with other departments", dept),
			Recommendation: "consider strengthening ties with other departments",
		})
	}

	for _, pair := range r.graph.strongPairs() {
		patterns = append(patterns, CollaborationPattern{
			Type:        "strong collaboration pair",
			Departments: []string{pair.Source, pair.Target},
			Description: fmt.Sprintf("%s and %s collaborate frequently", pair.Source, pair.Target),
			Metrics: map[string]interface{}{
				"interaction_count":  pair.Weight,
				"main_activity_type": pair.MainActivityType,
			},
		})
	}

	for _, tri := range g.Triangles() {
		patterns = append(patterns, CollaborationPattern{
			Type:        "triangle collaboration",
			Departments: []string{tri[0], tri[1], tri[2]},
			Description: fmt.Sprintf("%s, %s and %s form a tightly connected trio", tri[0], tri[1], tri[2]),
		})
	}

	return patterns
}
