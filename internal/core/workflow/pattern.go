package workflow

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/ids"
	"github.com/agenthands/pulse/internal/model"
)

const (
	defaultMinPatternFrequency = 2
	defaultTimeWindowHours     = 24

	// maxSequenceLen caps mined sequences; longer runs are truncated.
	maxSequenceLen = 5
	// partialMatchWeight is the credit a contiguous subsequence earns, so
	// stable prefixes surface even when full sequences vary.
	partialMatchWeight = 0.5
)

// Config tunes the workflow analyzer. Zero values fall back to defaults.
type Config struct {
	// MinPatternFrequency is the accumulated weight a (sub)sequence needs
	// to qualify as a pattern.
	MinPatternFrequency float64
	// TimeWindowHours is the maximum gap between consecutive activities in
	// one sequence.
	TimeWindowHours int
}

// Analyzer mines recurring activity sequences into workflow models. Like
// the department analyzer it keeps no state between calls.
type Analyzer struct {
	minPatternFrequency float64
	timeWindow          time.Duration
	log                 *zap.Logger
}

func NewAnalyzer(cfg Config, log *zap.Logger) *Analyzer {
	if cfg.MinPatternFrequency <= 0 {
		cfg.MinPatternFrequency = defaultMinPatternFrequency
	}
	if cfg.TimeWindowHours <= 0 {
		cfg.TimeWindowHours = defaultTimeWindowHours
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		minPatternFrequency: cfg.MinPatternFrequency,
		timeWindow:          time.Duration(cfg.TimeWindowHours) * time.Hour,
		log:                 log,
	}
}

// Pattern is a recurring behavior mined from the activity batch: either a
// per-person activity sequence or a recurring team constellation.
type Pattern struct {
	ID             string           `json:"id"`
	PersonID       string           `json:"person_id,omitempty"`
	ParticipantIDs []string         `json:"participant_ids,omitempty"`
	Sequence       []string         `json:"sequence,omitempty"`
	Frequency      float64          `json:"frequency"`
	Activities     []model.Activity `json:"-"`
	ActivityIDs    []string         `json:"activity_ids"`
	Type           string           `json:"type"`
}

// IsTeam reports whether the pattern came from team detection rather than a
// single person's sequence.
func (p *Pattern) IsTeam() bool { return len(p.ParticipantIDs) > 0 }

// DetectPatterns mines per-person frequent sequences and recurring team
// constellations from one batch of activities. An empty batch yields an
// empty list.
func (a *Analyzer) DetectPatterns(activities []model.Activity) []Pattern {
	if len(activities) == 0 {
		return []Pattern{}
	}

	sorted := make([]model.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	// An activity with N participants contributes to N per-person groups.
	perPerson := make(map[string][]model.Activity)
	var personOrder []string
	for _, act := range sorted {
		for _, pid := range act.ParticipantIDs {
			if _, seen := perPerson[pid]; !seen {
				personOrder = append(personOrder, pid)
			}
			perPerson[pid] = append(perPerson[pid], act)
		}
	}
	sort.Strings(personOrder)

	patterns := []Pattern{}
	for _, pid := range personOrder {
		acts := perPerson[pid]
		sequences := a.extractSequences(acts)
		for _, fs := range a.frequentSequences(sequences) {
			patterns = append(patterns, Pattern{
				ID:         ids.New("pattern", pid+"_"+strings.Join(fs.items, "|")),
				PersonID:   pid,
				Sequence:   fs.items,
				Frequency:  fs.weight,
				Activities: activitiesForSequence(acts, fs.items),
				Type:       classifyPatternType(fs.items),
			})
		}
	}

	patterns = append(patterns, a.detectTeamPatterns(sorted)...)

	for i := range patterns {
		for _, act := range patterns[i].Activities {
			patterns[i].ActivityIDs = append(patterns[i].ActivityIDs, act.ID)
		}
	}

	a.log.Info("pattern detection complete", zap.Int("patterns", len(patterns)))
	return patterns
}

// extractSequences walks each starting index and greedily extends while
// consecutive activities stay within the time window. Sequences shorter
// than two items are dropped; longer ones are capped.
func (a *Analyzer) extractSequences(acts []model.Activity) [][]string {
	var sequences [][]string
	for i := 0; i < len(acts); i++ {
		seq := []string{sequenceItem(&acts[i])}
		for j := i + 1; j < len(acts) && len(seq) < maxSequenceLen; j++ {
			if acts[j].Timestamp.Sub(acts[j-1].Timestamp) > a.timeWindow {
				break
			}
			seq = append(seq, sequenceItem(&acts[j]))
		}
		if len(seq) >= 2 {
			sequences = append(sequences, seq)
		}
	}
	return sequences
}

// sequenceItem identifies an activity inside a sequence: its type,
// suffixed with its first tag when one exists.
func sequenceItem(act *model.Activity) string {
	item := string(act.Type)
	if len(act.Tags) > 0 {
		item += "_" + act.Tags[0]
	}
	return item
}

type frequentSequence struct {
	items  []string
	weight float64
}

// frequentSequences counts exact sequences at weight 1 and every contiguous
// proper subsequence of length >= 2 at partial weight, then keeps entries
// at or above the minimum pattern frequency, most frequent first.
func (a *Analyzer) frequentSequences(sequences [][]string) []frequentSequence {
	weights := make(map[string]float64)
	items := make(map[string][]string)

	record := func(seq []string, w float64) {
		key := strings.Join(seq, "|")
		weights[key] += w
		if _, ok := items[key]; !ok {
			items[key] = append([]string(nil), seq...)
		}
	}

	for _, seq := range sequences {
		record(seq, 1)
		for length := 2; length < len(seq); length++ {
			for i := 0; i+length <= len(seq); i++ {
				record(seq[i:i+length], partialMatchWeight)
			}
		}
	}

	var out []frequentSequence
	for key, w := range weights {
		if w >= a.minPatternFrequency {
			out = append(out, frequentSequence{items: items[key], weight: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].weight != out[j].weight {
			return out[i].weight > out[j].weight
		}
		return strings.Join(out[i].items, "|") < strings.Join(out[j].items, "|")
	})
	return out
}

// activitiesForSequence collects the activities backing each occurrence of
// the sequence, matching on the type part of every item.
func activitiesForSequence(acts []model.Activity, seq []string) []model.Activity {
	var matched []model.Activity
	for i := 0; i+len(seq) <= len(acts); i++ {
		ok := true
		for j, item := range seq {
			if !strings.HasPrefix(sequenceItem(&acts[i+j]), typePart(item)) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, acts[i:i+len(seq)]...)
		}
	}
	return matched
}

// typePart strips the tag suffix off a sequence item.
func typePart(item string) string {
	if idx := strings.IndexByte(item, '_'); idx >= 0 {
		return item[:idx]
	}
	return item
}

// classifyPatternType names a sequence by its dominant activity kinds.
func classifyPatternType(seq []string) string {
	joined := strings.Join(seq, " ")
	switch {
	case strings.Contains(joined, "email") && strings.Contains(joined, "document"):
		return "document creation flow"
	case strings.Contains(joined, "meeting"):
		return "meeting flow"
	case strings.Contains(joined, "email"):
		return "email communication flow"
	case strings.Contains(joined, "document"):
		return "document management flow"
	default:
		return "general workflow"
	}
}

// detectTeamPatterns groups multi-participant activities by their exact
// participant set; sets that recur often enough become patterns.
func (a *Analyzer) detectTeamPatterns(sorted []model.Activity) []Pattern {
	var multi []model.Activity
	for _, act := range sorted {
		if len(act.ParticipantIDs) > 1 {
			multi = append(multi, act)
		}
	}
	if float64(len(multi)) < a.minPatternFrequency {
		return nil
	}

	groups := make(map[string][]model.Activity)
	members := make(map[string][]string)
	for _, act := range multi {
		key := participantKey(act.ParticipantIDs)
		groups[key] = append(groups[key], act)
		if _, ok := members[key]; !ok {
			ms := append([]string(nil), act.ParticipantIDs...)
			sort.Strings(ms)
			members[key] = ms
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Pattern
	for _, key := range keys {
		acts := groups[key]
		if float64(len(acts)) < a.minPatternFrequency {
			continue
		}
		out = append(out, Pattern{
			ID:             ids.New("team_pattern", key),
			ParticipantIDs: members[key],
			Frequency:      float64(len(acts)),
			Activities:     acts,
			Type:           "team collaboration pattern",
		})
	}
	return out
}

func participantKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
