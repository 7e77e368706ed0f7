package flow

import (
	"sort"
	"strings"
	"time"
)

// WipMonthlyMode selects how the daily WIP series reduces to months.
type WipMonthlyMode string

const (
	WipMonthlyEndOfMonth WipMonthlyMode = "eom" // last daily snapshot of the month
	WipMonthlyAverage    WipMonthlyMode = "avg" // mean over the month's days
)

// inferredLookbackDays bounds how far back an in-progress start is assumed
// when an issue sits in the status with no changelog evidence.
const inferredLookbackDays = 30

// SampleDailyWIP reconstructs, for every calendar day in the window, the
// count of issues whose in-progress interval covers that day. A day with
// zero qualifying issues still yields a snapshot, so the series is gap-free
// and time-series rendering never interpolates over holes.
//
// An issue counts for a day when its interval covers any portion of that day
// before the exit instant: entry before the day's end, and exit (when
// recorded) after the day's start. Open intervals count through the window
// end.
//
// Issues currently in the status but lacking any changelog entry into it get
// an inferred start of max(created, window end - 30d); those inferences are
// reported so the caller can surface them.
func SampleDailyWIP(issues []Issue, window AnalysisWindow, status string) ([]WipSnapshot, []Exclusion) {
	var ranges []Interval
	var inferred []Exclusion

	for _, issue := range issues {
		active := ActiveRanges(issue, status)
		if len(active) == 0 && strings.EqualFold(issue.Status, status) {
			start := window.End.AddDate(0, 0, -inferredLookbackDays)
			if issue.Created.After(start) {
				start = issue.Created
			}
			active = []Interval{{Status: status, Start: start, Inferred: true}}
			inferred = append(inferred, Exclusion{
				Key:    issue.Key,
				Reason: "in-progress start inferred from " + DayLabel(start),
			})
		}
		ranges = append(ranges, active...)
	}

	days := window.Days()
	snapshots := make([]WipSnapshot, len(days))

	for i, day := range days {
		dayEnd := EndOfDay(day)
		count := 0
		for _, r := range ranges {
			if r.Start.After(dayEnd) {
				continue
			}
			if r.End != nil && !r.End.After(day) {
				continue
			}
			count++
		}
		snapshots[i] = WipSnapshot{Date: day, Count: count}
	}

	return snapshots, inferred
}

// ReduceMonthlyWIP folds the gap-free daily series into one value per month.
// The reduction mode is a configuration choice, not fixed.
func ReduceMonthlyWIP(daily []WipSnapshot, mode WipMonthlyMode) []MonthlyWip {
	if len(daily) == 0 {
		return nil
	}

	type acc struct {
		sum  int
		days int
		last int
	}
	byMonth := make(map[time.Time]*acc)
	var order []time.Time

	for _, snap := range daily {
		month := SnapToMonth(snap.Date)
		a, ok := byMonth[month]
		if !ok {
			a = &acc{}
			byMonth[month] = a
			order = append(order, month)
		}
		a.sum += snap.Count
		a.days++
		a.last = snap.Count
	}

	monthly := make([]MonthlyWip, 0, len(order))
	for _, month := range order {
		a := byMonth[month]
		value := float64(a.last)
		if mode == WipMonthlyAverage {
			value = float64(a.sum) / float64(a.days)
		}
		monthly = append(monthly, MonthlyWip{Month: month, Value: value})
	}

	return monthly
}

// WipDetail describes one issue's in-progress range for drilldown tables.
type WipDetail struct {
	Key      string     `json:"key"`
	Summary  string     `json:"summary,omitempty"`
	Assignee string     `json:"assignee,omitempty"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	Days     float64    `json:"days"`
}

// IssuesInProgressInMonth lists issues whose in-progress range overlaps the
// given month, sorted by range start. Open ranges accrue days through the
// window end.
func IssuesInProgressInMonth(issues []Issue, window AnalysisWindow, status string, month time.Time) []WipDetail {
	monthStart := SnapToMonth(month)
	monthEnd := EndOfDay(monthStart.AddDate(0, 1, -1))

	var details []WipDetail
	for _, issue := range issues {
		for _, r := range ActiveRanges(issue, status) {
			if r.Start.After(monthEnd) {
				continue
			}
			if r.End != nil && r.End.Before(monthStart) {
				continue
			}

			end := window.End
			if r.End != nil {
				end = *r.End
			}
			details = append(details, WipDetail{
				Key:      issue.Key,
				Summary:  issue.Summary,
				Assignee: issue.Assignee,
				Start:    r.Start,
				End:      r.End,
				Days:     end.Sub(r.Start).Hours() / 24.0,
			})
		}
	}

	sort.Slice(details, func(i, j int) bool {
		return details[i].Start.Before(details[j].Start)
	})

	return details
}
