package flow

import (
	"sort"
)

// GroupBy selects the grouping dimension for period aggregation.
type GroupBy string

const (
	GroupByMonth    GroupBy = "month"
	GroupByAssignee GroupBy = "assignee"
)

// GroupStat summarizes one group of duration samples. Values carries the
// full post-exclusion distribution for histogram rendering.
type GroupStat struct {
	Key      string    `json:"key"`
	Count    int       `json:"count"`
	Excluded int       `json:"excluded,omitempty"` // outliers removed from this group's statistics
	Mean     float64   `json:"mean"`
	Median   float64   `json:"median"`
	Values   []float64 `json:"values,omitempty"`
	Thin     bool      `json:"thin,omitempty"` // below the configured minimum sample count
}

// GroupSamples groups duration samples by completion month or assignee and
// computes count, mean, median and the distribution per group. The outlier
// policy is applied against each group's own population, since bounds are
// population-relative. Groups under minSamples are flagged as statistically
// thin but still reported, never silently dropped.
//
// Month groups are ordered chronologically; assignee groups by descending
// mean duration.
func GroupSamples(samples []MetricSample, by GroupBy, minSamples int, policy OutlierPolicy) []GroupStat {
	grouped := make(map[string][]MetricSample)
	var order []string

	for _, s := range samples {
		key := groupKey(s, by)
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], s)
	}

	stats := make([]GroupStat, 0, len(order))
	for _, key := range order {
		kept, excluded := policy.Apply(grouped[key])

		values := make([]float64, len(kept))
		for i, s := range kept {
			values[i] = s.Days
		}

		stats = append(stats, GroupStat{
			Key:      key,
			Count:    len(kept),
			Excluded: len(excluded),
			Mean:     Mean(values),
			Median:   Median(values),
			Values:   values,
			Thin:     minSamples > 0 && len(kept) < minSamples,
		})
	}

	switch by {
	case GroupByAssignee:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Mean > stats[j].Mean
		})
	default:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Key < stats[j].Key
		})
	}

	return stats
}

func groupKey(s MetricSample, by GroupBy) string {
	if by == GroupByAssignee {
		if s.Assignee == "" {
			return "Unassigned"
		}
		return s.Assignee
	}
	return SnapToMonth(s.Completed).Format("2006-01")
}
