package department

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/ids"
	"github.com/agenthands/pulse/internal/model"
)

const (
	defaultMinInteractionCount = 3
	defaultStrongPairThreshold = 10

	// flowScanWindow bounds how far ahead the flow inference looks for a
	// follow-up activity.
	flowScanWindow  = 10
	flowMaxGapHours = 24
)

// Config tunes the department analyzer. Zero values fall back to defaults.
type Config struct {
	// MinInteractionCount is the minimum number of shared activities a
	// department pair needs before it materializes as a graph edge.
	MinInteractionCount int
	// StrongPairThreshold is the edge weight at which a pair counts as a
	// strong collaboration.
	StrongPairThreshold int
}

// Analyzer analyzes cross-department collaboration and communication flow.
// It is stateless between calls: each Analyze builds a fresh graph snapshot
// owned by the returned Report.
type Analyzer struct {
	cfg Config
	log *zap.Logger
}

func NewAnalyzer(cfg Config, log *zap.Logger) *Analyzer {
	if cfg.MinInteractionCount <= 0 {
		cfg.MinInteractionCount = defaultMinInteractionCount
	}
	if cfg.StrongPairThreshold <= 0 {
		cfg.StrongPairThreshold = defaultStrongPairThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, log: log}
}

// Analyze runs the full department interaction analysis over one batch of
// activities. Inputs are read-only; an empty batch yields a degenerate
// report, a nil one an *AnalysisError.
func (a *Analyzer) Analyze(activities []model.Activity, people *model.Registry) (*Report, error) {
	if activities == nil {
		return nil, &AnalysisError{Msg: "activities must not be nil"}
	}
	if people == nil {
		return nil, &AnalysisError{Msg: "person registry must not be nil"}
	}

	interactions := collectInteractions(activities, people)
	flows := a.analyzeFlows(activities, people)
	crossFunctional := identifyCrossFunctional(activities, people)

	dg := buildGraph(interactions, a.cfg.MinInteractionCount, a.cfg.StrongPairThreshold)
	centrality := dg.centralityMetrics(a.log)

	report := &Report{
		Interactions:     interactions,
		Flows:            flows,
		CrossFunctional:  crossFunctional,
		Centrality:       centrality,
		InformationPaths: dg.informationPaths(),
		Bottlenecks:      dg.bottlenecks(centrality),
		Metrics:          dg.graphMetrics(),
		graph:            dg,
	}

	a.log.Info("department analysis complete",
		zap.Int("pairs", len(interactions)),
		zap.Int("departments", dg.g.NodeCount()),
		zap.Int("flows", len(flows)))
	return report, nil
}

// collectInteractions aggregates per-pair counts. Cross-department pairs are
// canonicalized by sorting, so (A,B) and (B,A) share one counter; two or
// more participants from one department in the same activity count as an
// intra-department interaction on the (D,D) diagonal.
func collectInteractions(activities []model.Activity, people *model.Registry) map[string]*Interaction {
	interactions := make(map[string]*Interaction)

	bump := func(d1, d2 string, act *model.Activity, participants []*model.Person) {
		key := d1 + "|" + d2
		in, ok := interactions[key]
		if !ok {
			in = &Interaction{
				Departments:   [2]string{d1, d2},
				ActivityTypes: make(map[model.ActivityType]int),
				participants:  make(map[string]struct{}),
			}
			interactions[key] = in
		}
		in.Count++
		in.ActivityIDs = append(in.ActivityIDs, act.ID)
		in.ActivityTypes[act.Type]++
		for _, p := range participants {
			in.participants[p.ID] = struct{}{}
		}
	}

	for i := range activities {
		act := &activities[i]
		byDept := make(map[string][]*model.Person)
		for _, p := range people.Participants(act) {
			byDept[p.Department] = append(byDept[p.Department], p)
		}

		depts := make([]string, 0, len(byDept))
		for d := range byDept {
			depts = append(depts, d)
		}
		sort.Strings(depts)

		if len(depts) > 1 {
			for x := 0; x < len(depts); x++ {
				for y := x + 1; y < len(depts); y++ {
					d1, d2 := depts[x], depts[y]
					combined := make([]*model.Person, 0, len(byDept[d1])+len(byDept[d2]))
					combined = append(combined, byDept[d1]...)
					combined = append(combined, byDept[d2]...)
					bump(d1, d2, act, combined)
				}
			}
		}
		for _, d := range depts {
			if len(byDept[d]) > 1 {
				bump(d, d, act, byDept[d])
			}
		}
	}

	for _, in := range interactions {
		in.Participants = make([]string, 0, len(in.participants))
		for id := range in.participants {
			in.Participants = append(in.Participants, id)
		}
		sort.Strings(in.Participants)
	}
	return interactions
}

// analyzeFlows infers department-level hand-offs: for each email or meeting,
// the first of the next few activities that shares a department and happens
// within a day becomes the flow target.
func (a *Analyzer) analyzeFlows(activities []model.Activity, people *model.Registry) []Flow {
	sorted := make([]*model.Activity, 0, len(activities))
	for i := range activities {
		sorted = append(sorted, &activities[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	flows := make([]Flow, 0)
	for i := 0; i < len(sorted)-1; i++ {
		curr := sorted[i]
		if curr.Type != model.ActivityEmail && curr.Type != model.ActivityMeeting {
			continue
		}
		currDepts := departmentsOf(curr, people)

		limit := i + flowScanWindow - 1
		if limit > len(sorted)-1 {
			limit = len(sorted) - 1
		}
		for j := i + 1; j <= limit; j++ {
			next := sorted[j]
			nextDepts := departmentsOf(next, people)
			common := intersect(currDepts, nextDepts)
			gap := next.Timestamp.Sub(curr.Timestamp).Hours()
			if len(common) == 0 || gap >= flowMaxGapHours {
				continue
			}
			flows = append(flows, Flow{
				ID:                  ids.New("flow", curr.ID+"_"+next.ID),
				SourceActivityID:    curr.ID,
				TargetActivityID:    next.ID,
				SourceDepartments:   currDepts,
				TargetDepartments:   nextDepts,
				CommonDepartments:   common,
				TimeDifferenceHours: math.Round(gap*10) / 10,
				FlowType:            classifyFlowType(curr.Type, next.Type),
			})
			break
		}
	}
	return flows
}

// classifyFlowType maps a source/target activity type pair onto the fixed
// flow taxonomy.
func classifyFlowType(source, target model.ActivityType) string {
	switch {
	case source == model.ActivityEmail && target == model.ActivityMeeting:
		return "coordination flow"
	case source == model.ActivityMeeting && target == model.ActivityDocument:
		return "decision documentation"
	case source == model.ActivityDocument && target == model.ActivityEmail:
		return "document sharing"
	case source == target:
		return fmt.Sprintf("chain of %s", source)
	default:
		return "generic flow"
	}
}

// identifyCrossFunctional flags activities spanning three or more
// departments, scored by department count times participant count.
func identifyCrossFunctional(activities []model.Activity, people *model.Registry) []CrossFunctional {
	out := make([]CrossFunctional, 0)
	for i := range activities {
		act := &activities[i]
		participants := people.Participants(act)
		byDept := make(map[string][]string)
		for _, p := range participants {
			byDept[p.Department] = append(byDept[p.Department], p.Name)
		}
		if len(byDept) < 3 {
			continue
		}
		depts := make([]string, 0, len(byDept))
		for d := range byDept {
			depts = append(depts, d)
		}
		sort.Strings(depts)
		out = append(out, CrossFunctional{
			ActivityID:         act.ID,
			ActivityType:       act.Type,
			Timestamp:          act.Timestamp,
			Departments:        depts,
			ParticipantCount:   len(participants),
			ParticipantsByDept: byDept,
			ComplexityScore:    len(byDept) * len(participants),
			Tags:               act.Tags,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ComplexityScore != out[j].ComplexityScore {
			return out[i].ComplexityScore > out[j].ComplexityScore
		}
		return out[i].ActivityID < out[j].ActivityID
	})
	return out
}

func departmentsOf(act *model.Activity, people *model.Registry) []string {
	seen := make(map[string]struct{})
	for _, p := range people.Participants(act) {
		seen[p.Department] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range b {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
