package flow

import (
	"slices"
	"time"
)

// JiraTimeLayout is the strict timestamp format used by Jira changelogs.
const JiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// ChangeRecord is one raw status-change event as reported by the tracker,
// before timestamp parsing and ordering.
type ChangeRecord struct {
	Timestamp string
	From      string
	To        string
}

// Normalizer converts a raw per-issue event list into an ordered, de-duplicated
// StatusTransition sequence.
type Normalizer struct {
	Layouts []string // accepted timestamp layouts, tried in order
}

// NewNormalizer returns a Normalizer accepting the given layouts, defaulting
// to the Jira changelog format plus RFC 3339.
func NewNormalizer(layouts ...string) Normalizer {
	if len(layouts) == 0 {
		layouts = []string{JiraTimeLayout, time.RFC3339}
	}
	return Normalizer{Layouts: layouts}
}

// Normalize parses and sorts the records ascending by timestamp and drops
// duplicate (timestamp, destination) pairs. The sort is stable: records
// sharing a timestamp keep their source order, preserving the causal
// sequence of bulk transitions. A missing or unparsable timestamp yields a
// MalformedChangelogError.
func (n Normalizer) Normalize(key string, records []ChangeRecord) ([]StatusTransition, error) {
	if len(records) == 0 {
		return nil, nil
	}

	transitions := make([]StatusTransition, 0, len(records))
	for i, r := range records {
		if r.Timestamp == "" {
			return nil, &MalformedChangelogError{Key: key, Index: i}
		}
		at, err := n.parseTime(r.Timestamp)
		if err != nil {
			return nil, &MalformedChangelogError{Key: key, Index: i, Timestamp: r.Timestamp, Err: err}
		}
		transitions = append(transitions, StatusTransition{At: at, From: r.From, To: r.To})
	}

	slices.SortStableFunc(transitions, func(a, b StatusTransition) int {
		return a.At.Compare(b.At)
	})

	seen := make(map[string]bool, len(transitions))
	deduped := transitions[:0]
	for _, t := range transitions {
		id := t.At.Format(time.RFC3339Nano) + "\x00" + t.To
		if seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, t)
	}

	return deduped, nil
}

func (n Normalizer) parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range n.Layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
