package flow

import (
	"testing"
)

func TestGroupSamplesByMonth(t *testing.T) {
	samples := []MetricSample{
		{Key: "FL-1", Days: 4, RawDays: 4, Completed: day(2024, 2, 10)},
		{Key: "FL-2", Days: 6, RawDays: 6, Completed: day(2024, 2, 20)},
		{Key: "FL-3", Days: 10, RawDays: 10, Completed: day(2024, 1, 15)},
	}

	stats := GroupSamples(samples, GroupByMonth, 0, OutlierPolicy{})
	if len(stats) != 2 {
		t.Fatalf("Expected 2 month groups, got %d", len(stats))
	}
	if stats[0].Key != "2024-01" || stats[1].Key != "2024-02" {
		t.Errorf("Expected chronological month order, got %s, %s", stats[0].Key, stats[1].Key)
	}
	if stats[1].Count != 2 || stats[1].Mean != 5 || stats[1].Median != 5 {
		t.Errorf("February stats wrong: %+v", stats[1])
	}
}

func TestGroupSamplesByAssignee(t *testing.T) {
	samples := []MetricSample{
		{Key: "FL-1", Days: 2, RawDays: 2, Assignee: "Ada", Completed: day(2024, 2, 1)},
		{Key: "FL-2", Days: 8, RawDays: 8, Assignee: "Grace", Completed: day(2024, 2, 2)},
		{Key: "FL-3", Days: 5, RawDays: 5, Completed: day(2024, 2, 3)},
	}

	stats := GroupSamples(samples, GroupByAssignee, 0, OutlierPolicy{})
	if len(stats) != 3 {
		t.Fatalf("Expected 3 assignee groups, got %d", len(stats))
	}
	if stats[0].Key != "Grace" {
		t.Errorf("Expected slowest assignee first, got %s", stats[0].Key)
	}
	found := false
	for _, s := range stats {
		if s.Key == "Unassigned" {
			found = true
		}
	}
	if !found {
		t.Error("Samples without assignee should group under Unassigned")
	}
}

func TestGroupSamplesThinFlag(t *testing.T) {
	samples := []MetricSample{
		{Key: "FL-1", Days: 2, RawDays: 2, Completed: day(2024, 2, 1)},
		{Key: "FL-2", Days: 4, RawDays: 4, Completed: day(2024, 2, 2)},
	}

	stats := GroupSamples(samples, GroupByMonth, 3, OutlierPolicy{})
	if !stats[0].Thin {
		t.Error("Group below the minimum sample count should be flagged thin")
	}
	if stats[0].Count != 2 {
		t.Error("Thin groups must still be reported with their statistics")
	}
}

func TestGroupSamplesAppliesPolicyPerGroup(t *testing.T) {
	samples := []MetricSample{
		{Key: "FL-1", Days: 2, RawDays: 2, Completed: day(2024, 1, 10)},
		{Key: "FL-2", Days: 50, RawDays: 50, Completed: day(2024, 1, 20)},
		{Key: "FL-3", Days: 3, RawDays: 3, Completed: day(2024, 2, 10)},
	}

	policy := OutlierPolicy{Mode: OutlierCap, CapDays: 10}
	stats := GroupSamples(samples, GroupByMonth, 0, policy)

	jan := stats[0]
	if jan.Count != 1 || jan.Excluded != 1 {
		t.Errorf("January: expected 1 kept and 1 excluded, got %+v", jan)
	}
	if jan.Mean != 2 {
		t.Errorf("January mean should ignore the excluded outlier, got %f", jan.Mean)
	}

	feb := stats[1]
	if feb.Count != 1 || feb.Excluded != 0 {
		t.Errorf("February: expected untouched group, got %+v", feb)
	}
}
