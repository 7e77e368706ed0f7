package flow

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ComputeSamples derives one duration sample per issue that resolved the
// metric's status pair. Issues lacking the entry status, or whose interval
// is still open, are excluded and counted; their absence is never reported
// as a zero.
func ComputeSamples(issues []Issue, kind MetricKind, pair StatusPair) ([]MetricSample, []Exclusion) {
	var samples []MetricSample
	var excluded []Exclusion

	for _, issue := range issues {
		iv, err := ExtractInterval(issue, pair)
		if err != nil {
			excluded = append(excluded, Exclusion{Key: issue.Key, Reason: err.Error()})
			continue
		}
		if iv.Open() {
			excluded = append(excluded, Exclusion{
				Key:    issue.Key,
				Reason: fmt.Sprintf("never reached %q", pair.Terminal),
			})
			continue
		}

		days := iv.End.Sub(iv.Start).Hours() / 24.0
		samples = append(samples, MetricSample{
			Key:       issue.Key,
			Kind:      kind,
			Days:      days,
			RawDays:   days,
			Completed: *iv.End,
			Category:  issue.Category,
			Assignee:  issue.Assignee,
		})
	}

	return samples, excluded
}

// ClampToWindow bounds the reported duration of samples whose interval began
// before the window start. The raw duration is preserved and the sample is
// flagged, so long-running issues stay visible with an explicit lower-bound
// marker instead of being silently dropped.
func ClampToWindow(samples []MetricSample, window AnalysisWindow) []MetricSample {
	out := make([]MetricSample, len(samples))
	copy(out, samples)

	for i := range out {
		s := &out[i]
		start := s.Completed.Add(-time.Duration(s.RawDays * float64(24*time.Hour)))
		if start.Before(window.Start) {
			s.Days = s.Completed.Sub(window.Start).Hours() / 24.0
			s.Clamped = true
		}
	}

	return out
}

// OutlierMode selects how aggregate statistics exclude extreme durations.
type OutlierMode string

const (
	OutlierNone OutlierMode = "none"
	OutlierCap  OutlierMode = "cap" // fixed day cap
	OutlierIQR  OutlierMode = "iqr" // median + N*IQR of the population
)

// OutlierPolicy is a pure predicate over a duration and the sample
// population it belongs to. Bounds are population-relative: they must be
// recomputed for the exact group being aggregated (per category, per month),
// never once globally.
type OutlierPolicy struct {
	Mode      OutlierMode
	CapDays   float64 // upper bound for OutlierCap
	IQRFactor float64 // multiplier for OutlierIQR
}

// Bound returns the inclusive upper duration bound for the given population.
// +Inf means nothing is excluded. The IQR bound needs at least four samples
// to be meaningful.
func (p OutlierPolicy) Bound(population []float64) float64 {
	switch p.Mode {
	case OutlierCap:
		if p.CapDays > 0 {
			return p.CapDays
		}
	case OutlierIQR:
		if p.IQRFactor > 0 && len(population) >= 4 {
			return Median(population) + p.IQRFactor*IQR(population)
		}
	}
	return math.Inf(1)
}

// Apply splits samples into kept and excluded against a bound computed from
// this exact population. The IQR bound is re-derived over the kept set until
// no further sample falls outside it, so applying the policy to its own
// output excludes nothing. The predicate evaluates raw (unclamped)
// durations, so window clamping never changes a sample's inclusion.
// Excluded samples are returned, not discarded, for inspection.
func (p OutlierPolicy) Apply(samples []MetricSample) (kept, excluded []MetricSample) {
	kept = samples
	for {
		population := make([]float64, len(kept))
		for i, s := range kept {
			population[i] = s.RawDays
		}
		bound := p.Bound(population)
		if math.IsInf(bound, 1) {
			return kept, excluded
		}

		var next, out []MetricSample
		for _, s := range kept {
			if s.RawDays > bound {
				out = append(out, s)
			} else {
				next = append(next, s)
			}
		}
		if len(out) == 0 {
			return kept, excluded
		}
		kept = next
		excluded = append(excluded, out...)
	}
}

// ZScoreOutlier flags a sample whose duration deviates strongly from the
// population mean. Identification is separate from exclusion: flagged
// samples stay in the raw sample set.
type ZScoreOutlier struct {
	Sample MetricSample `json:"sample"`
	Z      float64      `json:"z"`
}

// IdentifyOutliers returns samples with |z| at or above threshold, sorted by
// descending deviation. A zero threshold defaults to 2.0.
func IdentifyOutliers(samples []MetricSample, threshold float64) []ZScoreOutlier {
	if threshold <= 0 {
		threshold = 2.0
	}
	if len(samples) == 0 {
		return nil
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.RawDays
	}
	mean := Mean(values)
	std := StdDev(values)
	if std == 0 {
		return nil
	}

	var outliers []ZScoreOutlier
	for i, s := range samples {
		z := (values[i] - mean) / std
		if math.Abs(z) >= threshold {
			outliers = append(outliers, ZScoreOutlier{Sample: s, Z: z})
		}
	}

	sort.Slice(outliers, func(i, j int) bool {
		return math.Abs(outliers[i].Z) > math.Abs(outliers[j].Z)
	})

	return outliers
}
