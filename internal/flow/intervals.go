package flow

import (
	"strings"
	"time"
)

// StatusPair names the entry and terminal statuses bounding a duration
// metric. Status names are configuration, not vocabulary: trackers vary in
// workflow naming, so both sides are matched case-insensitively.
type StatusPair struct {
	Entry    string
	Terminal string
}

// ExtractInterval locates the first transition into pair.Entry and the first
// subsequent arrival at pair.Terminal.
//
// Reopened work does not reset the interval: if an issue enters and leaves
// the entry status multiple times, the first entry wins, and the first
// terminal arrival after it closes the interval. This measures time to first
// delivery rather than time in the final push. An issue that revisits the
// entry status after reaching the terminal status keeps the original bounds.
//
// An issue born in the entry status (its first recorded transition leaves
// it, or it has no transitions and still sits there) anchors the interval at
// its creation timestamp. An issue that never touches the entry status
// yields a MissingIntervalError and is excluded from the metric, not zeroed.
func ExtractInterval(issue Issue, pair StatusPair) (Interval, error) {
	entry, fromIdx, ok := findEntry(issue, pair.Entry)
	if !ok {
		return Interval{}, &MissingIntervalError{Key: issue.Key, Status: pair.Entry}
	}

	for i := fromIdx; i < len(issue.Transitions); i++ {
		t := issue.Transitions[i]
		if strings.EqualFold(t.To, pair.Terminal) && !t.At.Before(entry) {
			end := t.At
			return Interval{Status: pair.Entry, Start: entry, End: &end}, nil
		}
	}

	return Interval{Status: pair.Entry, Start: entry}, nil
}

// findEntry resolves the interval anchor for a status and the transition
// index from which a terminal arrival may close it.
func findEntry(issue Issue, status string) (time.Time, int, bool) {
	for i, t := range issue.Transitions {
		if strings.EqualFold(t.To, status) {
			return t.At, i + 1, true
		}
	}

	// Born in the status: the first recorded transition leaves it.
	if len(issue.Transitions) > 0 && strings.EqualFold(issue.Transitions[0].From, status) {
		return issue.Created, 0, true
	}

	// No history at all, but the issue currently sits in the status.
	if len(issue.Transitions) == 0 && strings.EqualFold(issue.Status, status) {
		return issue.Created, 0, true
	}

	return time.Time{}, 0, false
}

// ActiveRanges returns every contiguous period the issue spent in status,
// derived by folding over its sorted transitions. The final range stays open
// when the issue still occupies the status at analysis time. Issues with no
// changelog evidence of the status yield nothing; callers that want a
// fallback must infer one explicitly.
func ActiveRanges(issue Issue, status string) []Interval {
	if len(issue.Transitions) == 0 {
		return nil
	}

	var ranges []Interval
	var start *time.Time

	if strings.EqualFold(issue.Transitions[0].From, status) {
		created := issue.Created
		start = &created
	}

	for _, t := range issue.Transitions {
		entering := strings.EqualFold(t.To, status)
		leaving := strings.EqualFold(t.From, status)
		switch {
		case start == nil && entering:
			at := t.At
			start = &at
		case start != nil && leaving && !entering:
			end := t.At
			ranges = append(ranges, Interval{Status: status, Start: *start, End: &end})
			start = nil
		}
	}

	if start != nil && strings.EqualFold(issue.Status, status) {
		ranges = append(ranges, Interval{Status: status, Start: *start})
	}

	return ranges
}
