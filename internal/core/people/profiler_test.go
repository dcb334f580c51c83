package people

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/pulse/internal/model"
)

var base = time.Date(2026, time.April, 6, 10, 0, 0, 0, time.UTC)

func taggedAct(id string, typ model.ActivityType, ts time.Time, content string, tags []string, participants ...string) model.Activity {
	return model.Activity{
		ID: id, Type: typ, Timestamp: ts, Content: content,
		Tags: tags, ParticipantIDs: participants,
	}
}

func TestExtractPersonsRegistersUnknowns(t *testing.T) {
	pr := NewProfiler(nil)
	reg := model.NewRegistry()
	reg.Add(&model.Person{ID: "p1", Name: "Ana", Department: "Sales"})

	activities := []model.Activity{
		taggedAct("a1", model.ActivityEmail, base, "", nil, "p1", "bob.lee@corp.example"),
		taggedAct("a2", model.ActivityChat, base.Add(time.Hour), "", nil, "p1"),
	}

	persons := pr.ExtractPersons(activities, reg)
	require.Len(t, persons, 2)
	assert.Equal(t, "p1", persons[0].ID)

	bob, ok := reg.Get("bob.lee@corp.example")
	require.True(t, ok)
	assert.Equal(t, "Bob Lee", bob.Name)
	assert.Equal(t, "unassigned", bob.Department)
	assert.Equal(t, "bob.lee@corp.example", bob.Email)

	ana, _ := reg.Get("p1")
	assert.Equal(t, []string{"a1", "a2"}, ana.ActivityIDs)
	assert.Equal(t, []string{"bob.lee@corp.example"}, ana.CollaboratorIDs)
}

func TestAnalyzeActivities(t *testing.T) {
	pr := NewProfiler(nil)
	person := &model.Person{ID: "p1", ActivityIDs: []string{"a1", "a2", "a3"}}

	activities := []model.Activity{
		taggedAct("a1", model.ActivityEmail, base, "quarterly budget review budget", []string{"budget"}, "p1"),
		taggedAct("a2", model.ActivityEmail, base.AddDate(0, 0, 1), "budget follow-up", []string{"budget"}, "p1"),
		taggedAct("a3", model.ActivityMeeting, base.AddDate(0, 0, 2).Add(4*time.Hour), "planning session", []string{"planning"}, "p1"),
		taggedAct("other", model.ActivityTask, base, "unrelated", nil, "p2"),
	}

	stats := pr.AnalyzeActivities(person, activities)
	assert.Equal(t, 3, stats.TotalActivities)
	assert.Equal(t, 2, stats.ActivityTypes[model.ActivityEmail])
	assert.Equal(t, 1, stats.ActivityTypes[model.ActivityMeeting])
	assert.Equal(t, map[int]int{10: 2, 14: 1}, stats.ActiveHours)
	assert.Equal(t, base, stats.FirstActivity)
	assert.Equal(t, base.AddDate(0, 0, 2).Add(4*time.Hour), stats.LastActivity)
	assert.Equal(t, []string{"budget"}, stats.MainTopics)

	require.NotEmpty(t, stats.Keywords)
	assert.Equal(t, KeywordCount{Word: "budget", Count: 3}, stats.Keywords[0])

	// Three activities over a span of 2 days and 4 hours: 3 / (2+4/24+1).
	assert.InDelta(t, 0.95, stats.DailyAverage, 0.01)
}

func TestAnalyzeActivitiesEmpty(t *testing.T) {
	pr := NewProfiler(nil)
	stats := pr.AnalyzeActivities(&model.Person{ID: "p1"}, nil)
	assert.Zero(t, stats.TotalActivities)
	assert.Empty(t, stats.ActivityTypes)
	assert.Empty(t, stats.Keywords)
	assert.Zero(t, stats.DailyAverage)
}

func TestEstimateExpertise(t *testing.T) {
	pr := NewProfiler(nil)
	person := &model.Person{ID: "p1", ActivityIDs: []string{"a1", "a2", "a3", "a4"}}

	activities := []model.Activity{
		taggedAct("a1", model.ActivityTask, base, "", []string{"security", "audit"}, "p1"),
		taggedAct("a2", model.ActivityTask, base, "", []string{"security"}, "p1"),
		taggedAct("a3", model.ActivityTask, base, "", []string{"security", "audit"}, "p1"),
		taggedAct("a4", model.ActivityTask, base, "", []string{"audit"}, "p1"),
	}

	// Both tags hit the three-occurrence bar; ties break alphabetically.
	expertise := pr.EstimateExpertise(person, activities)
	assert.Equal(t, []string{"audit", "security"}, expertise)
	assert.Equal(t, expertise, person.Skills)
}

func TestCollaborationNetwork(t *testing.T) {
	pr := NewProfiler(nil)
	reg := model.NewRegistry()

	// Star: hub collaborates with everyone, spokes only with the hub.
	hub := &model.Person{ID: "hub", Name: "Hub"}
	for _, id := range []string{"s1", "s2", "s3"} {
		spoke := &model.Person{ID: id, Name: id}
		spoke.AddCollaborator("hub")
		hub.AddCollaborator(id)
		reg.Add(spoke)
	}
	reg.Add(hub)

	metrics := pr.CollaborationNetwork(reg)
	require.Len(t, metrics, 4)

	assert.Equal(t, 3, metrics["hub"].CollaborationCount)
	assert.InDelta(t, 1.0, metrics["hub"].DegreeCentrality, 1e-9)
	assert.InDelta(t, 1.0, metrics["hub"].BetweennessCentrality, 1e-9)
	assert.InDelta(t, 0.0, metrics["s1"].BetweennessCentrality, 1e-9)
	assert.Equal(t, 1, metrics["s1"].CollaborationCount)

	// Mutual listings count once from each side.
	require.Len(t, metrics["s1"].StrongestCollaborations, 1)
	assert.Equal(t, Collaboration{PersonID: "hub", Weight: 2}, metrics["s1"].StrongestCollaborations[0])
}

func TestKeyPersons(t *testing.T) {
	metrics := map[string]NetworkMetrics{
		"a": {DegreeCentrality: 0.9},
		"b": {DegreeCentrality: 0.5, BetweennessCentrality: 0.4},
		"c": {DegreeCentrality: 0.5, BetweennessCentrality: 0.1},
		"d": {DegreeCentrality: 0.2},
	}
	assert.Equal(t, []string{"a", "b", "c"}, KeyPersons(metrics, 3))
}

func TestMarkdownProfile(t *testing.T) {
	reg := model.NewRegistry()
	reg.Add(&model.Person{ID: "p2", Name: "Noa"})

	person := &model.Person{
		ID: "p1", Name: "Ana", Department: "Sales", Role: "Manager",
		Email: "ana@corp.example", Skills: []string{"budget"},
	}
	stats := ActivityStats{
		TotalActivities: 2,
		ActivityTypes:   map[model.ActivityType]int{model.ActivityEmail: 2},
		ActiveHours:     map[int]int{9: 2},
		Keywords:        []KeywordCount{{Word: "budget", Count: 3}},
		DailyAverage:    0.5,
		FirstActivity:   base,
		LastActivity:    base.AddDate(0, 0, 3),
	}
	metrics := &NetworkMetrics{
		DegreeCentrality: 0.25, CollaborationCount: 1,
		StrongestCollaborations: []Collaboration{{PersonID: "p2", Weight: 4}},
	}

	md := MarkdownProfile(person, stats, metrics, reg)
	assert.Contains(t, md, "# Ana")
	assert.Contains(t, md, "- Department: Sales")
	assert.Contains(t, md, "| email | 2 |")
	assert.Contains(t, md, "09:00 ## (2)")
	assert.Contains(t, md, "- [[Noa]] (4 shared activities)")
	assert.Contains(t, md, "- budget")
	assert.Contains(t, md, "- Degree centrality: 0.250")
	assert.Contains(t, md, "- Active period: 2026-04-06 to 2026-04-09")
}
