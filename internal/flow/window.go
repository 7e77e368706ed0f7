package flow

import (
	"time"
)

// AnalysisWindow bounds one analysis run. Start is snapped to the beginning
// of its day, End to the last nanosecond of its day.
type AnalysisWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewAnalysisWindow creates a window with normalized day boundaries.
func NewAnalysisWindow(start, end time.Time) AnalysisWindow {
	return AnalysisWindow{
		Start: SnapToDay(start),
		End:   EndOfDay(end),
	}
}

// WindowForMonths returns a window covering the first day of the month
// monthsBack months before ref, through ref itself.
func WindowForMonths(ref time.Time, monthsBack int) AnalysisWindow {
	start := SnapToMonth(ref).AddDate(0, -monthsBack, 0)
	return NewAnalysisWindow(start, ref)
}

// Contains reports whether t falls inside the window.
func (w AnalysisWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the start of every calendar day in the window, ascending.
func (w AnalysisWindow) Days() []time.Time {
	var days []time.Time
	current := SnapToDay(w.Start)
	last := SnapToDay(w.End)
	for !current.After(last) {
		days = append(days, current)
		current = current.AddDate(0, 0, 1)
	}
	return days
}

// Months returns the start of every calendar month touched by the window,
// ascending.
func (w AnalysisWindow) Months() []time.Time {
	var months []time.Time
	current := SnapToMonth(w.Start)
	last := SnapToMonth(w.End)
	for !current.After(last) {
		months = append(months, current)
		current = current.AddDate(0, 1, 0)
	}
	return months
}

// SnapToDay normalizes a timestamp to the beginning of its day.
func SnapToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes a timestamp to the last nanosecond of its day.
func EndOfDay(t time.Time) time.Time {
	return SnapToDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SnapToMonth normalizes a timestamp to the first day of its month.
func SnapToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DayLabel formats a day bucket for tabular output.
func DayLabel(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthLabel formats a month bucket for tabular output.
func MonthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}
