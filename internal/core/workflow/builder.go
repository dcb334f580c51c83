package workflow

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/ids"
	"github.com/agenthands/pulse/internal/model"
)

const (
	// maxStepGapHours bounds which consecutive gaps count toward a step's
	// duration estimate; anything longer is an overnight break, not work.
	maxStepGapHours = 24
	// defaultStepDurationHours is used when no usable gap exists.
	defaultStepDurationHours = 1.0
	// stepSampleContentLen truncates activity content in step descriptions.
	stepSampleContentLen = 50
)

// BuildWorkflow turns one mined pattern into a workflow model. Steps form a
// linear chain in sequence order. Unknown owners are registered as
// placeholder persons; a team pattern with no resolvable participant is an
// *AnalysisError.
func (a *Analyzer) BuildWorkflow(p *Pattern, people *model.Registry) (*model.Workflow, error) {
	if p == nil {
		return nil, &AnalysisError{Msg: "pattern must not be nil"}
	}
	if people == nil {
		return nil, &AnalysisError{Msg: "person registry must not be nil"}
	}

	ownerID, err := resolveOwner(p, people)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wf := &model.Workflow{
		ID:        ids.New("workflow", p.ID),
		Name:      workflowName(p),
		OwnerID:   ownerID,
		Frequency: estimateFrequency(p),
		Priority:  estimatePriority(p),
		CreatedAt: now,
		UpdatedAt: now,
	}

	steps := buildSteps(p)
	for i, step := range steps {
		if i > 0 {
			step.AddDependency(steps[i-1].ID)
		}
		wf.AddStep(step)
	}

	a.log.Info("workflow built",
		zap.String("workflow", wf.ID),
		zap.String("owner", ownerID),
		zap.Int("steps", len(steps)))
	return wf, nil
}

// BuildWorkflows builds a workflow per pattern, skipping patterns whose
// owner cannot be resolved and logging the failure instead of aborting the
// batch.
func (a *Analyzer) BuildWorkflows(patterns []Pattern, people *model.Registry) []*model.Workflow {
	out := make([]*model.Workflow, 0, len(patterns))
	for i := range patterns {
		wf, err := a.BuildWorkflow(&patterns[i], people)
		if err != nil {
			a.log.Warn("skipping pattern", zap.String("pattern", patterns[i].ID), zap.Error(err))
			continue
		}
		out = append(out, wf)
	}
	return out
}

// resolveOwner picks the workflow owner. Person patterns own themselves,
// registering a placeholder entry when the person is unknown; team patterns
// go to the most frequent participant across the backing activities.
func resolveOwner(p *Pattern, people *model.Registry) (string, error) {
	if !p.IsTeam() {
		if p.PersonID == "" {
			return "", &AnalysisError{Msg: "pattern has no person identity"}
		}
		if _, ok := people.Get(p.PersonID); !ok {
			people.Add(placeholderPerson(p.PersonID))
		}
		return p.PersonID, nil
	}

	counts := make(map[string]int)
	for i := range p.Activities {
		for _, pid := range p.Activities[i].ParticipantIDs {
			counts[pid]++
		}
	}
	if len(counts) == 0 {
		return "", &AnalysisError{Msg: fmt.Sprintf("team pattern %s has no participants", p.ID)}
	}

	best := ""
	for pid, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && pid < best) {
			best = pid
		}
	}
	if _, ok := people.Get(best); !ok {
		people.Add(placeholderPerson(best))
	}
	return best, nil
}

// placeholderPerson builds a minimal person record from a bare contact
// identity, usually an email address.
func placeholderPerson(identity string) *model.Person {
	name := identity
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")
	p := &model.Person{
		ID:         identity,
		Name:       titleWords(name),
		Department: "unassigned",
		Role:       "unassigned",
	}
	if strings.ContainsRune(identity, '@') {
		p.Email = identity
	}
	return p
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// workflowName derives a readable name from the mined sequence or team size.
func workflowName(p *Pattern) string {
	if p.IsTeam() {
		return fmt.Sprintf("%d-person %s", len(p.ParticipantIDs), p.Type)
	}
	if len(p.Sequence) == 0 {
		return p.Type
	}
	start := typePart(p.Sequence[0])
	end := typePart(p.Sequence[len(p.Sequence)-1])
	if start == end {
		return fmt.Sprintf("%s-centered %s", start, p.Type)
	}
	return fmt.Sprintf("%s to %s %s", start, end, p.Type)
}

// estimateFrequency buckets the pattern by the mean whole-day gap between
// its backing activities. Fewer than two timestamps is irregular.
func estimateFrequency(p *Pattern) model.Frequency {
	if len(p.Activities) < 2 {
		return model.FrequencyIrregular
	}
	ts := make([]time.Time, 0, len(p.Activities))
	for i := range p.Activities {
		ts = append(ts, p.Activities[i].Timestamp)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })

	total := 0
	for i := 1; i < len(ts); i++ {
		total += int(ts[i].Sub(ts[i-1]).Hours() / 24)
	}
	avgDays := float64(total) / float64(len(ts)-1)
	switch {
	case avgDays <= 1:
		return model.FrequencyDaily
	case avgDays <= 7:
		return model.FrequencyWeekly
	case avgDays <= 30:
		return model.FrequencyMonthly
	default:
		return model.FrequencyIrregular
	}
}

// estimatePriority ranks by recurrence strength, with meeting-centric
// patterns promoted regardless of frequency.
func estimatePriority(p *Pattern) model.Priority {
	switch {
	case p.Frequency >= 10 || strings.Contains(p.Type, "meeting"):
		return model.PriorityHigh
	case p.Frequency >= 5:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// buildSteps materializes one step per sequence item (or per activity type
// for team patterns), each backed by the matching activities.
func buildSteps(p *Pattern) []*model.WorkflowStep {
	if p.IsTeam() {
		return buildTeamSteps(p)
	}

	var steps []*model.WorkflowStep
	for i, item := range p.Sequence {
		var group []model.Activity
		for j := range p.Activities {
			if strings.Contains(item, string(p.Activities[j].Type)) {
				group = append(group, p.Activities[j])
			}
		}
		if len(group) == 0 {
			continue
		}
		steps = append(steps, &model.WorkflowStep{
			ID:            ids.New("step", p.ID+"_"+strconv.Itoa(i)),
			Name:          stepName(item, group),
			Description:   stepDescription(group),
			ResponsibleID: mostFrequentParticipant(group),
			DurationHours: estimateStepDuration(group),
		})
	}
	return steps
}

func buildTeamSteps(p *Pattern) []*model.WorkflowStep {
	byType := make(map[model.ActivityType][]model.Activity)
	for i := range p.Activities {
		byType[p.Activities[i].Type] = append(byType[p.Activities[i].Type], p.Activities[i])
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	var steps []*model.WorkflowStep
	for i, t := range types {
		group := byType[model.ActivityType(t)]
		steps = append(steps, &model.WorkflowStep{
			ID:            ids.New("step", p.ID+"_"+strconv.Itoa(i)),
			Name:          t + " activity",
			Description:   fmt.Sprintf("%d %s activities by the team", len(group), t),
			ResponsibleID: mostFrequentParticipant(group),
			DurationHours: estimateStepDuration(group),
		})
	}
	return steps
}

// stepName prepends the group's most common tag, if any, to the readable
// form of the sequence item.
func stepName(item string, group []model.Activity) string {
	base := strings.ReplaceAll(item, "_", " ")
	counts := make(map[string]int)
	for i := range group {
		for _, tag := range group[i].Tags {
			counts[tag]++
		}
	}
	best := ""
	for tag, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && tag < best) {
			best = tag
		}
	}
	if best == "" || strings.Contains(base, best) {
		return base
	}
	return best + " " + base
}

func stepDescription(group []model.Activity) string {
	samples := make([]string, 0, 3)
	for i := range group {
		if len(samples) == 3 {
			break
		}
		content := group[i].Content
		if len(content) > stepSampleContentLen {
			content = content[:stepSampleContentLen]
		}
		if content != "" {
			samples = append(samples, content)
		}
	}
	desc := fmt.Sprintf("%d recorded activities", len(group))
	if len(samples) > 0 {
		desc += ". e.g.: " + strings.Join(samples, "; ")
	}
	return desc
}

// mostFrequentParticipant breaks ties lexicographically; an empty group
// leaves the step unassigned.
func mostFrequentParticipant(group []model.Activity) string {
	counts := make(map[string]int)
	for i := range group {
		for _, pid := range group[i].ParticipantIDs {
			counts[pid]++
		}
	}
	best := ""
	for pid, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && pid < best) {
			best = pid
		}
	}
	return best
}

// estimateStepDuration averages consecutive gaps under a day, rounded to
// one decimal. Gaps of zero or a full day and beyond are ignored.
func estimateStepDuration(group []model.Activity) float64 {
	ts := make([]time.Time, 0, len(group))
	for i := range group {
		ts = append(ts, group[i].Timestamp)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })

	var gaps []float64
	for i := 1; i < len(ts); i++ {
		h := ts[i].Sub(ts[i-1]).Hours()
		if h > 0 && h < maxStepGapHours {
			gaps = append(gaps, h)
		}
	}
	if len(gaps) == 0 {
		return defaultStepDurationHours
	}
	sum := 0.0
	for _, g := range gaps {
		sum += g
	}
	return math.Round(sum/float64(len(gaps))*10) / 10
}
