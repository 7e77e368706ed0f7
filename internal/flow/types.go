package flow

import (
	"time"
)

// Category labels the kind of work an issue represents.
type Category string

const (
	CategoryMaintenance Category = "maintenance"
	CategoryProject     Category = "project"
	CategoryUnknown     Category = "unknown"
)

// MetricKind identifies which duration metric a sample measures.
type MetricKind string

const (
	LeadTime  MetricKind = "lead_time"
	CycleTime MetricKind = "cycle_time"
)

// StatusTransition is a single status change in an issue's history.
// Within one issue the sequence is ascending by timestamp with no
// duplicate (timestamp, destination) pairs.
type StatusTransition struct {
	At   time.Time `json:"at"`
	From string    `json:"from"`
	To   string    `json:"to"`
}

// Issue is the analysis-time view of a tracker issue. It is built once per
// run from fetched data and never mutated afterwards.
type Issue struct {
	Key           string             `json:"key"`
	Summary       string             `json:"summary,omitempty"`
	Assignee      string             `json:"assignee,omitempty"`
	ParentKey     string             `json:"parentKey,omitempty"`
	ParentSummary string             `json:"parentSummary,omitempty"`
	Status        string             `json:"status"`
	Category      Category           `json:"category"`
	Created       time.Time          `json:"created"`
	Resolved      *time.Time         `json:"resolved,omitempty"`
	Transitions   []StatusTransition `json:"transitions,omitempty"`
}

// Interval is a contiguous period an issue spent progressing from a status.
// End is nil while the issue still occupies the status at analysis time.
// Intervals are derived from transitions on every run, never stored.
type Interval struct {
	Status   string
	Start    time.Time
	End      *time.Time
	Inferred bool // start reconstructed without changelog evidence
}

// Open reports whether the interval has no recorded exit.
func (iv Interval) Open() bool {
	return iv.End == nil
}

// MetricSample is one per-issue duration measurement. Days carries the
// reported duration in fractional days; RawDays preserves the unclamped
// value for auditing.
type MetricSample struct {
	Key       string     `json:"key"`
	Kind      MetricKind `json:"kind"`
	Days      float64    `json:"days"`
	RawDays   float64    `json:"rawDays"`
	Clamped   bool       `json:"clamped,omitempty"`
	Completed time.Time  `json:"completed"`
	Category  Category   `json:"category"`
	Assignee  string     `json:"assignee,omitempty"`
}

// WipSnapshot is the count of issues occupying the in-progress status on a
// single calendar day. The daily series over a window is gap-free.
type WipSnapshot struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// MonthlyWip is one month's WIP value after reduction of the daily series.
// The value is fractional when the reduction mode averages the days.
type MonthlyWip struct {
	Month time.Time `json:"month"`
	Value float64   `json:"value"`
}

// ThroughputBucket counts the issues completed in one month, split by
// category. Percent is populated only when Total is nonzero.
type ThroughputBucket struct {
	Month      time.Time            `json:"month"`
	Total      int                  `json:"total"`
	ByCategory map[Category]int     `json:"byCategory"`
	Percent    map[Category]float64 `json:"percent,omitempty"`
}
