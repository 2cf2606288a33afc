package grid

import (
	"sort"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// FrequencyEntry is a (name, count) pair in the side-list ranking.
type FrequencyEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RankByFrequency groups activities by exact name (case-sensitive, no
// trimming) and returns one entry per distinct name sorted by count
// descending. Equal counts keep first-seen order from the input list.
func RankByFrequency(activities []*model.Activity) []FrequencyEntry {
	counts := make(map[string]int)
	var order []string
	for _, a := range activities {
		if _, seen := counts[a.Name]; !seen {
			order = append(order, a.Name)
		}
		counts[a.Name]++
	}

	entries := make([]FrequencyEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, FrequencyEntry{Name: name, Count: counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
