package people

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/pulse/internal/model"
)

// MarkdownProfile renders one person's profile as a markdown note. The
// [[Name]] collaborator links follow the wiki-link convention of the
// downstream note store.
func MarkdownProfile(person *model.Person, stats ActivityStats, metrics *NetworkMetrics, people *model.Registry) string {
	lines := []string{
		"# " + person.Name,
		"",
		"## Basic information",
		"- Department: " + person.Department,
		"- Role: " + person.Role,
		"- Email: " + person.Email,
		"",
		"## Activity summary",
		fmt.Sprintf("- Total activities: %d", stats.TotalActivities),
		fmt.Sprintf("- Daily average: %.2f", stats.DailyAverage),
	}
	if !stats.FirstActivity.IsZero() {
		lines = append(lines, fmt.Sprintf("- Active period: %s to %s",
			stats.FirstActivity.Format("2006-01-02"), stats.LastActivity.Format("2006-01-02")))
	}
	lines = append(lines, "")

	if len(stats.ActivityTypes) > 0 {
		lines = append(lines, "### Activity types", "| Type | Count |", "|------|-------|")
		type tc struct {
			t model.ActivityType
			c int
		}
		ranked := make([]tc, 0, len(stats.ActivityTypes))
		for t, c := range stats.ActivityTypes {
			ranked = append(ranked, tc{t, c})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].c != ranked[j].c {
				return ranked[i].c > ranked[j].c
			}
			return ranked[i].t < ranked[j].t
		})
		for _, r := range ranked {
			lines = append(lines, fmt.Sprintf("| %s | %d |", r.t, r.c))
		}
		lines = append(lines, "")
	}

	if len(stats.ActiveHours) > 0 {
		lines = append(lines, "### Peak hours", "```")
		hours := make([]int, 0, len(stats.ActiveHours))
		for h := range stats.ActiveHours {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		for _, h := range hours {
			c := stats.ActiveHours[h]
			bar := strings.Repeat("#", min(c, 20))
			lines = append(lines, fmt.Sprintf("%02d:00 %s (%d)", h, bar, c))
		}
		lines = append(lines, "```", "")
	}

	if metrics != nil && len(metrics.StrongestCollaborations) > 0 {
		lines = append(lines, "## Key collaborators", "")
		limit := min(len(metrics.StrongestCollaborations), 5)
		for _, collab := range metrics.StrongestCollaborations[:limit] {
			name := collab.PersonID
			if p, ok := people.Get(collab.PersonID); ok {
				name = p.Name
			}
			lines = append(lines, fmt.Sprintf("- [[%s]] (%d shared activities)", name, collab.Weight))
		}
		lines = append(lines, "")
	}

	if len(person.Skills) > 0 {
		lines = append(lines, "## Expertise", "")
		for _, skill := range person.Skills {
			lines = append(lines, "- "+skill)
		}
		lines = append(lines, "")
	}

	if len(stats.Keywords) > 0 {
		lines = append(lines, "## Frequent keywords", "")
		for _, kw := range stats.Keywords {
			lines = append(lines, fmt.Sprintf("- %s (%d)", kw.Word, kw.Count))
		}
		lines = append(lines, "")
	}

	if metrics != nil {
		lines = append(lines,
			"## Network",
			fmt.Sprintf("- Collaborators: %d", metrics.CollaborationCount),
			fmt.Sprintf("- Degree centrality: %.3f", metrics.DegreeCentrality),
			fmt.Sprintf("- Betweenness centrality: %.3f", metrics.BetweennessCentrality),
			"")
	}

	return strings.Join(lines, "\n")
}
