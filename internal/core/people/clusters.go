package people

import (
	"sort"

	"github.com/agenthands/pulse/internal/model"
)

const defaultClusterIterations = 20

// DetectTeamClusters finds informal team clusters in the collaboration
// network via label propagation. Each person starts with their own label;
// labels then spread along weighted collaboration edges until stable.
// Singleton clusters are dropped. Clusters come back sorted, members sorted
// within each cluster.
func (pr *Profiler) DetectTeamClusters(people *model.Registry) [][]string {
	persons := people.People()
	if len(persons) == 0 {
		return nil
	}

	adj := make(map[string]map[string]int, len(persons))
	for _, p := range persons {
		adj[p.ID] = make(map[string]int)
	}
	for _, p := range persons {
		for _, cid := range p.CollaboratorIDs {
			if _, ok := adj[cid]; !ok {
				continue
			}
			adj[p.ID][cid]++
			adj[cid][p.ID]++
		}
	}

	ids := make([]string, 0, len(persons))
	labels := make(map[string]string, len(persons))
	for _, p := range persons {
		ids = append(ids, p.ID)
		labels[p.ID] = p.ID
	}
	sort.Strings(ids)

	for iter := 0; iter < defaultClusterIterations; iter++ {
		changed := 0
		for _, u := range ids {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			// Lexicographically largest wins ties, which keeps runs stable.
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	grouped := make(map[string][]string)
	for _, id := range ids {
		grouped[labels[id]] = append(grouped[labels[id]], id)
	}

	var clusters [][]string
	for _, members := range grouped {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		clusters = append(clusters, members)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] < clusters[j][0] })
	return clusters
}
