package flow

import (
	"math"
	"strings"
	"time"
)

// AggregateThroughput buckets completed issues by the month of their
// terminal-status entry, split by category. Every month in the window gets a
// bucket, zero-total months included. Percentages are derived per category
// as count over month total; a zero total leaves Percent unset rather than
// producing a divide-by-zero artifact.
//
// Unknown-category issues count toward the month total but are excluded
// from the split unless includeUnknown is set.
func AggregateThroughput(issues []Issue, window AnalysisWindow, terminal string, includeUnknown bool) []ThroughputBucket {
	// Months are keyed by label, not time.Time: completion timestamps carry
	// the fixed offset they were parsed with, which never compares equal to
	// the window's month instants.
	months := window.Months()
	index := make(map[string]int, len(months))
	buckets := make([]ThroughputBucket, len(months))
	for i, month := range months {
		index[month.Format("2006-01")] = i
		buckets[i] = ThroughputBucket{
			Month:      month,
			ByCategory: make(map[Category]int),
		}
	}

	for _, issue := range issues {
		completed := CompletionTime(issue, terminal)
		if completed == nil || !window.Contains(*completed) {
			continue
		}
		i, ok := index[completed.Format("2006-01")]
		if !ok {
			continue
		}

		buckets[i].Total++
		if issue.Category != CategoryUnknown || includeUnknown {
			buckets[i].ByCategory[issue.Category]++
		}
	}

	for i := range buckets {
		b := &buckets[i]
		if b.Total == 0 {
			continue
		}
		b.Percent = make(map[Category]float64, len(b.ByCategory))
		for cat, count := range b.ByCategory {
			b.Percent[cat] = math.Round(float64(count)/float64(b.Total)*1000) / 10
		}
	}

	return buckets
}

// CompletionTime resolves when an issue completed: the first transition into
// the terminal status, falling back to the tracker resolution date when the
// changelog carries no such transition.
func CompletionTime(issue Issue, terminal string) *time.Time {
	for _, t := range issue.Transitions {
		if strings.EqualFold(t.To, terminal) {
			at := t.At
			return &at
		}
	}
	return issue.Resolved
}

// AverageMonthlyThroughput returns the mean completed count across buckets,
// or 0 when there are none.
func AverageMonthlyThroughput(buckets []ThroughputBucket) float64 {
	if len(buckets) == 0 {
		return 0
	}
	sum := 0
	for _, b := range buckets {
		sum += b.Total
	}
	return float64(sum) / float64(len(buckets))
}
