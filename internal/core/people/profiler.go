package people

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/graph"
	"github.com/agenthands/pulse/internal/model"
)

// Profiler derives per-person activity statistics and collaboration-network
// metrics from an activity batch.
type Profiler struct {
	log *zap.Logger
}

func NewProfiler(log *zap.Logger) *Profiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profiler{log: log}
}

// ExtractPersons walks the batch and makes sure every participant exists in
// the registry, registering minimal records for unknown IDs. It also links
// each person to their activities and co-participants, and returns the
// persons seen in the batch in first-appearance order.
func (pr *Profiler) ExtractPersons(activities []model.Activity, people *model.Registry) []*model.Person {
	var seen []string
	seenSet := make(map[string]struct{})

	for i := range activities {
		act := &activities[i]
		for _, pid := range act.ParticipantIDs {
			p, ok := people.Get(pid)
			if !ok {
				p = minimalPerson(pid)
				people.Add(p)
			}
			p.AddActivity(act.ID)
			for _, other := range act.ParticipantIDs {
				p.AddCollaborator(other)
			}
			if _, dup := seenSet[pid]; !dup {
				seenSet[pid] = struct{}{}
				seen = append(seen, pid)
			}
		}
	}

	out := make([]*model.Person, 0, len(seen))
	for _, pid := range seen {
		if p, ok := people.Get(pid); ok {
			out = append(out, p)
		}
	}
	pr.log.Info("persons extracted", zap.Int("persons", len(out)))
	return out
}

func minimalPerson(identity string) *model.Person {
	name := identity
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.NewReplacer(".", " ", "_", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	p := &model.Person{
		ID:         identity,
		Name:       strings.Join(words, " "),
		Department: "unassigned",
		Role:       "unassigned",
	}
	if strings.ContainsRune(identity, '@') {
		p.Email = identity
	}
	return p
}

// KeywordCount is one ranked content keyword.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ActivityStats summarizes one person's activity history.
type ActivityStats struct {
	TotalActivities int                        `json:"total_activities"`
	ActivityTypes   map[model.ActivityType]int `json:"activity_types"`
	ActiveHours     map[int]int                `json:"active_hours"`
	ActiveWeekdays  map[string]int             `json:"active_weekdays"`
	Keywords        []KeywordCount             `json:"keywords"`
	MainTopics      []string                   `json:"main_topics"`
	DailyAverage    float64                    `json:"daily_average"`
	FirstActivity   time.Time                  `json:"first_activity"`
	LastActivity    time.Time                  `json:"last_activity"`
}

// AnalyzeActivities computes the stats over the person's slice of the
// batch. A person with no matching activities gets zero-valued stats.
func (pr *Profiler) AnalyzeActivities(person *model.Person, activities []model.Activity) ActivityStats {
	mine := make([]*model.Activity, 0, len(person.ActivityIDs))
	idSet := make(map[string]struct{}, len(person.ActivityIDs))
	for _, id := range person.ActivityIDs {
		idSet[id] = struct{}{}
	}
	for i := range activities {
		if _, ok := idSet[activities[i].ID]; ok {
			mine = append(mine, &activities[i])
		}
	}

	stats := ActivityStats{
		ActivityTypes:  make(map[model.ActivityType]int),
		ActiveHours:    make(map[int]int),
		ActiveWeekdays: make(map[string]int),
		Keywords:       []KeywordCount{},
		MainTopics:     []string{},
	}
	if len(mine) == 0 {
		return stats
	}

	hours := make(map[int]int)
	var contents []string
	for _, act := range mine {
		stats.ActivityTypes[act.Type]++
		hours[act.Timestamp.Hour()]++
		stats.ActiveWeekdays[act.Timestamp.Weekday().String()[:3]]++
		if act.Content != "" {
			contents = append(contents, act.Content)
		}
		if stats.FirstActivity.IsZero() || act.Timestamp.Before(stats.FirstActivity) {
			stats.FirstActivity = act.Timestamp
		}
		if act.Timestamp.After(stats.LastActivity) {
			stats.LastActivity = act.Timestamp
		}
	}
	stats.TotalActivities = len(mine)
	stats.ActiveHours = topHours(hours, 5)
	stats.Keywords = extractKeywords(strings.Join(contents, " "), 10)
	stats.MainTopics = mainTopics(mine, 5)

	if len(mine) > 1 {
		days := stats.LastActivity.Sub(stats.FirstActivity).Hours()/24 + 1
		if days > 0 {
			stats.DailyAverage = math.Round(float64(len(mine))/days*100) / 100
		}
	}
	return stats
}

func topHours(hours map[int]int, n int) map[int]int {
	type hc struct{ hour, count int }
	ranked := make([]hc, 0, len(hours))
	for h, c := range hours {
		ranked = append(ranked, hc{h, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].hour < ranked[j].hour
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make(map[int]int, len(ranked))
	for _, r := range ranked {
		out[r.hour] = r.count
	}
	return out
}

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"in": {}, "for": {}, "on": {}, "with": {}, "at": {}, "is": {}, "are": {},
	"was": {}, "be": {}, "this": {}, "that": {}, "it": {}, "as": {}, "by": {},
	"from": {}, "about": {},
}

// extractKeywords is a plain frequency count over whitespace-split words,
// lower-cased, punctuation-trimmed, stopwords and short tokens dropped.
func extractKeywords(text string, n int) []KeywordCount {
	counts := make(map[string]int)
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,;:!?()[]\"'")
		if len(word) < 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		counts[word]++
	}
	out := make([]KeywordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, KeywordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// mainTopics ranks tags that recur at least twice.
func mainTopics(acts []*model.Activity, n int) []string {
	counts := make(map[string]int)
	for _, act := range acts {
		for _, tag := range act.Tags {
			counts[tag]++
		}
	}
	type tc struct {
		tag   string
		count int
	}
	ranked := make([]tc, 0, len(counts))
	for tag, c := range counts {
		if c >= 2 {
			ranked = append(ranked, tc{tag, c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].tag < ranked[j].tag
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.tag)
	}
	return out
}

// EstimateExpertise treats tags that show up three or more times across the
// person's activities as expertise areas and records them as skills.
func (pr *Profiler) EstimateExpertise(person *model.Person, activities []model.Activity) []string {
	idSet := make(map[string]struct{}, len(person.ActivityIDs))
	for _, id := range person.ActivityIDs {
		idSet[id] = struct{}{}
	}
	counts := make(map[string]int)
	for i := range activities {
		if _, ok := idSet[activities[i].ID]; !ok {
			continue
		}
		for _, tag := range activities[i].Tags {
			counts[tag]++
		}
	}

	type tc struct {
		tag   string
		count int
	}
	ranked := make([]tc, 0, len(counts))
	for tag, c := range counts {
		if c >= 3 {
			ranked = append(ranked, tc{tag, c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].tag < ranked[j].tag
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	expertise := make([]string, 0, len(ranked))
	for _, r := range ranked {
		expertise = append(expertise, r.tag)
	}
	person.Skills = expertise
	return expertise
}

// Collaboration is one weighted edge of a person's collaboration
// neighborhood.
type Collaboration struct {
	PersonID string `json:"person_id"`
	Weight   int    `json:"weight"`
}

// NetworkMetrics is one person's standing in the collaboration network.
type NetworkMetrics struct {
	DegreeCentrality        float64         `json:"degree_centrality"`
	BetweennessCentrality   float64         `json:"betweenness_centrality"`
	CollaborationCount      int             `json:"collaboration_count"`
	StrongestCollaborations []Collaboration `json:"strongest_collaborations"`
}

// CollaborationNetwork builds the undirected co-work network over all
// registered persons and scores each one. Collaborator links pointing at
// unregistered persons are ignored.
func (pr *Profiler) CollaborationNetwork(people *model.Registry) map[string]NetworkMetrics {
	// The undirected network is modeled as a symmetric digraph so the shared
	// centrality code applies; directed normalization then matches the
	// undirected values exactly.
	g := graph.NewDirected()
	weights := make(map[[2]string]int)

	for _, p := range people.People() {
		g.AddNode(p.ID)
	}
	for _, p := range people.People() {
		for _, cid := range p.CollaboratorIDs {
			if _, ok := people.Get(cid); !ok {
				continue
			}
			key := edgeKey(p.ID, cid)
			weights[key]++
			w := float64(weights[key])
			g.AddEdge(p.ID, cid, w)
			g.AddEdge(cid, p.ID, w)
		}
	}

	betweenness := g.BetweennessCentrality(false)
	n := g.NodeCount()

	out := make(map[string]NetworkMetrics, n)
	for _, id := range g.Nodes() {
		neighbors := g.Neighbors(id)
		degree := 0.0
		if n > 1 {
			degree = float64(len(neighbors)) / float64(n-1)
		}

		collabs := make([]Collaboration, 0, len(neighbors))
		for _, nb := range neighbors {
			collabs = append(collabs, Collaboration{PersonID: nb, Weight: weights[edgeKey(id, nb)]})
		}
		sort.Slice(collabs, func(i, j int) bool {
			if collabs[i].Weight != collabs[j].Weight {
				return collabs[i].Weight > collabs[j].Weight
			}
			return collabs[i].PersonID < collabs[j].PersonID
		})

		out[id] = NetworkMetrics{
			DegreeCentrality:      math.Round(degree*1000) / 1000,
			BetweennessCentrality: math.Round(betweenness[id]*1000) / 1000,
			CollaborationCount:    len(neighbors),
			StrongestCollaborations: collabs,
		}
	}
	return out
}

func edgeKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// KeyPersons ranks persons by degree centrality, betweenness breaking ties.
func KeyPersons(metrics map[string]NetworkMetrics, n int) []string {
	ids := make([]string, 0, len(metrics))
	for id := range metrics {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := metrics[ids[i]], metrics[ids[j]]
		if a.DegreeCentrality != b.DegreeCentrality {
			return a.DegreeCentrality > b.DegreeCentrality
		}
		if a.BetweennessCentrality != b.BetweennessCentrality {
			return a.BetweennessCentrality > b.BetweennessCentrality
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
