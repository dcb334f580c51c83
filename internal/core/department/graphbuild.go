package department

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/graph"
	"github.com/agenthands/pulse/internal/model"
)

const (
	eigenvectorMaxIter = 1000
	eigenvectorTol     = 1e-6
)

type edgeMeta struct {
	activities int
	mainType   model.ActivityType
}

// deptGraph is the materialized department interaction graph: a directed
// weighted graph plus node attributes that do not belong on the edge set
// (intra-department counts, department size).
type deptGraph struct {
	g                   *graph.Directed
	internal            map[string]int
	size                map[string]int
	edges               map[[2]string]edgeMeta
	strongPairThreshold int
	eigenConverged      bool
}

// buildGraph materializes the graph from aggregated interactions, keeping
// only pairs at or above the minimum interaction count. Intra-department
// counts become node attributes; cross-department counts become a single
// directed edge on the canonical (sorted) pair.
func buildGraph(interactions map[string]*Interaction, minCount, strongPairThreshold int) *deptGraph {
	dg := &deptGraph{
		g:                   graph.NewDirected(),
		internal:            make(map[string]int),
		size:                make(map[string]int),
		edges:               make(map[[2]string]edgeMeta),
		strongPairThreshold: strongPairThreshold,
	}

	deptPeople := make(map[string]map[string]struct{})
	record := func(dept string, participants []string) {
		if deptPeople[dept] == nil {
			deptPeople[dept] = make(map[string]struct{})
		}
		for _, p := range participants {
			deptPeople[dept][p] = struct{}{}
		}
	}

	keys := make([]string, 0, len(interactions))
	for k := range interactions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		in := interactions[k]
		if in.Count < minCount {
			continue
		}
		d1, d2 := in.Departments[0], in.Departments[1]
		if d1 == d2 {
			dg.g.AddNode(d1)
			dg.internal[d1] = in.Count
			record(d1, in.Participants)
			continue
		}
		dg.g.AddEdge(d1, d2, float64(in.Count))
		dg.edges[[2]string{d1, d2}] = edgeMeta{
			activities: len(in.ActivityIDs),
			mainType:   in.MainActivityType(),
		}
		record(d1, in.Participants)
		record(d2, in.Participants)
	}

	for dept, people := range deptPeople {
		if dg.g.HasNode(dept) {
			dg.size[dept] = len(people)
		}
	}
	return dg
}

// centralityMetrics computes the per-department metric records. Eigenvector
// non-convergence degrades every score to 0.0 and is surfaced through
// eigenConverged, never as an error.
func (dg *deptGraph) centralityMetrics(log *zap.Logger) map[string]Centrality {
	metrics := make(map[string]Centrality)
	if dg.g.NodeCount() == 0 {
		dg.eigenConverged = true
		return metrics
	}

	degree := dg.g.DegreeCentrality()
	betweenness := dg.g.BetweennessCentrality(true)
	eigen, ok := dg.g.EigenvectorCentrality(eigenvectorMaxIter, eigenvectorTol)
	dg.eigenConverged = ok
	if !ok {
		log.Warn("eigenvector centrality did not converge, reporting zeros",
			zap.Int("departments", dg.g.NodeCount()))
		eigen = make(map[string]float64)
	}

	for _, dept := range dg.g.Nodes() {
		metrics[dept] = Centrality{
			DegreeCentrality:      round3(degree[dept]),
			BetweennessCentrality: round3(betweenness[dept]),
			EigenvectorCentrality: round3(eigen[dept]),
			InDegree:              dg.g.InDegree(dept),
			OutDegree:             dg.g.OutDegree(dept),
			TotalInteractions:     dg.g.OutWeight(dept),
		}
	}
	return metrics
}

// informationPaths finds, for every ordered department pair, the shortest
// hop path. Directly connected pairs are omitted; unreachable pairs are
// reported with infinite length. Results sort ascending by length with
// unreachable entries last.
func (dg *deptGraph) informationPaths() []InformationPath {
	var paths []InformationPath
	nodes := dg.g.Nodes()
	if len(nodes) < 2 {
		return paths
	}

	for _, source := range nodes {
		for _, target := range nodes {
			if source == target {
				continue
			}
			path, ok := dg.g.ShortestPath(source, target)
			if !ok {
				paths = append(paths, InformationPath{
					Source: source,
					Target: target,
					Length: math.Inf(1),
					Note:   "no information path between these departments",
				})
				continue
			}
			if len(path) <= 2 {
				continue // directly connected
			}
			var weight float64
			for i := 0; i < len(path)-1; i++ {
				weight += dg.g.Weight(path[i], path[i+1])
			}
			paths = append(paths, InformationPath{
				Source:         source,
				Target:         target,
				Path:           path,
				Length:         float64(len(path) - 1),
				Intermediaries: path[1 : len(path)-1],
				TotalWeight:    weight,
			})
		}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].Length != paths[j].Length {
			return paths[i].Length < paths[j].Length
		}
		if paths[i].Source != paths[j].Source {
			return paths[i].Source < paths[j].Source
		}
		return paths[i].Target < paths[j].Target
	})
	return paths
}

// bottlenecks applies the three additive heuristics and attaches remediation
// suggestions keyed to whichever rules fired.
func (dg *deptGraph) bottlenecks(metrics map[string]Centrality) []Bottleneck {
	var out []Bottleneck
	for _, dept := range dg.g.Nodes() {
		m := metrics[dept]
		score := 0
		var reasons []string

		if m.BetweennessCentrality > 0.3 {
			score += 3
			reasons = append(reasons, "intermediary for many cross-department flows")
		}
		if m.DegreeCentrality > 0.5 && dg.size[dept] < 5 {
			score += 2
			reasons = append(reasons, "small team serving many departments")
		}
		if float64(m.InDegree) > 1.5*float64(m.OutDegree) {
			score += 1
			reasons = append(reasons, "inbound request concentration")
		}

		if score > 0 {
			out = append(out, Bottleneck{
				Department:      dept,
				Score:           score,
				Reasons:         reasons,
				Metrics:         m,
				Recommendations: bottleneckRecommendations(dept, reasons),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Department < out[j].Department
	})
	return out
}

func bottleneckRecommendations(dept string, reasons []string) []string {
	var recs []string
	for _, reason := range reasons {
		switch reason {
		case "small team serving many departments":
			recs = append(recs, "consider additional staffing for "+dept)
		case "intermediary for many cross-department flows":
			recs = append(recs,
				"establish direct communication channels between the departments it bridges",
				"set up a recurring cross-department sync")
		case "inbound request concentration":
			recs = append(recs,
				"establish a request prioritization process",
				"provide self-service resources for common requests")
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "review and streamline the department's processes")
	}
	return recs
}

func (dg *deptGraph) graphMetrics() GraphMetrics {
	if dg.g.NodeCount() == 0 {
		return GraphMetrics{EigenvectorConverged: dg.eigenConverged}
	}
	return GraphMetrics{
		NodeCount:             dg.g.NodeCount(),
		EdgeCount:             dg.g.EdgeCount(),
		Density:               dg.g.Density(),
		IsConnected:           dg.g.IsWeaklyConnected(),
		AverageDegree:         dg.g.AverageDegree(),
		ClusteringCoefficient: dg.g.AverageClustering(),
		EigenvectorConverged:  dg.eigenConverged,
	}
}

type hubDepartment struct {
	Department           string
	ConnectedDepartments int
	TotalInteractions    float64
	Size                 int
}

// hubDepartments returns departments connected to at least half of all
// departments, ranked by connection count.
func (dg *deptGraph) hubDepartments() []hubDepartment {
	var hubs []hubDepartment
	total := dg.g.NodeCount()
	for _, dept := range dg.g.Nodes() {
		connected := len(dg.g.Neighbors(dept))
		if float64(connected) >= 0.5*float64(total) {
			hubs = append(hubs, hubDepartment{
				Department:           dept,
				ConnectedDepartments: connected,
				TotalInteractions:    dg.g.OutWeight(dept),
				Size:                 dg.size[dept],
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool {
		if hubs[i].ConnectedDepartments != hubs[j].ConnectedDepartments {
			return hubs[i].ConnectedDepartments > hubs[j].ConnectedDepartments
		}
		return hubs[i].Department < hubs[j].Department
	})
	return hubs
}

// isolatedDepartments returns departments connected to at most one other.
func (dg *deptGraph) isolatedDepartments() []string {
	var out []string
	for _, dept := range dg.g.Nodes() {
		if len(dg.g.Neighbors(dept)) <= 1 {
			out = append(out, dept)
		}
	}
	return out
}

type strongPair struct {
	Source           string
	Target           string
	Weight           int
	MainActivityType model.ActivityType
}

// strongPairs returns edges at or above the strong-pair threshold, ranked by
// weight.
func (dg *deptGraph) strongPairs() []strongPair {
	var pairs []strongPair
	for _, u := range dg.g.Nodes() {
		for _, v := range dg.g.Successors(u) {
			w := int(dg.g.Weight(u, v))
			if w >= dg.strongPairThreshold {
				pairs = append(pairs, strongPair{
					Source:           u,
					Target:           v,
					Weight:           w,
					MainActivityType: dg.edges[[2]string{u, v}].mainType,
				})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Weight != pairs[j].Weight {
			return pairs[i].Weight > pairs[j].Weight
		}
		if pairs[i].Source != pairs[j].Source {
			return pairs[i].Source < pairs[j].Source
		}
		return pairs[i].Target < pairs[j].Target
	})
	return pairs
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
