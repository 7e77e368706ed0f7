package flow

import (
	"fmt"
)

// MalformedChangelogError reports a changelog record whose timestamp is
// absent or unparsable. The affected issue is excluded from downstream
// metrics; the run continues.
type MalformedChangelogError struct {
	Key       string // issue key, when known
	Index     int    // position of the record in the raw changelog
	Timestamp string // the offending raw value, empty when absent
	Err       error
}

func (e *MalformedChangelogError) Error() string {
	subject := "changelog record"
	if e.Key != "" {
		subject = e.Key + " changelog record"
	}
	if e.Timestamp == "" {
		return fmt.Sprintf("%s %d: missing timestamp", subject, e.Index)
	}
	return fmt.Sprintf("%s %d: unparsable timestamp %q: %v", subject, e.Index, e.Timestamp, e.Err)
}

func (e *MalformedChangelogError) Unwrap() error {
	return e.Err
}

// MissingIntervalError reports that an issue never reached a status required
// by a metric. The sample is excluded, never zeroed or imputed.
type MissingIntervalError struct {
	Key    string
	Status string
}

func (e *MissingIntervalError) Error() string {
	return fmt.Sprintf("%s: no transition into %q", e.Key, e.Status)
}

// ConfigurationError reports a status or field mapping that never appears in
// the dataset. It aborts the computation before any metric is produced,
// since it indicates a setup mismatch rather than a data anomaly.
type ConfigurationError struct {
	Setting string
	Value   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s=%q: %s", e.Setting, e.Value, e.Reason)
}

// Exclusion records one issue dropped from a specific metric, so that no
// partial result is ever silently reported as complete.
type Exclusion struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// ExclusionReport tallies every exclusion of an analysis run by cause.
type ExclusionReport struct {
	TotalIssues   int         `json:"totalIssues"`
	Malformed     []Exclusion `json:"malformed,omitempty"`
	MissingLead   []Exclusion `json:"missingLead,omitempty"`
	MissingCycle  []Exclusion `json:"missingCycle,omitempty"`
	LeadOutliers  []Exclusion `json:"leadOutliers,omitempty"`
	CycleOutliers []Exclusion `json:"cycleOutliers,omitempty"`
	Unclassified  []Exclusion `json:"unclassified,omitempty"`
	InferredWip   []Exclusion `json:"inferredWip,omitempty"`
}

// Lines renders the report as human-readable summary lines, one per
// non-empty cause.
func (r ExclusionReport) Lines() []string {
	var lines []string
	add := func(excluded []Exclusion, format string) {
		if len(excluded) > 0 {
			lines = append(lines, fmt.Sprintf(format, len(excluded), r.TotalIssues))
		}
	}
	add(r.Malformed, "%d of %d issues excluded entirely: malformed changelog")
	add(r.MissingLead, "%d of %d issues excluded from lead time: missing interval")
	add(r.MissingCycle, "%d of %d issues excluded from cycle time: missing interval")
	add(r.LeadOutliers, "%d of %d issues excluded from lead time aggregates as outliers")
	add(r.CycleOutliers, "%d of %d issues excluded from cycle time aggregates as outliers")
	add(r.Unclassified, "%d of %d issues have no category: counted in totals, excluded from splits")
	add(r.InferredWip, "%d of %d issues have an inferred in-progress start (no changelog entry)")
	return lines
}
