package flow

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeSortsAscending(t *testing.T) {
	n := NewNormalizer()
	records := []ChangeRecord{
		{Timestamp: "2024-03-10T12:00:00.000+0000", From: "In Progress", To: "Done"},
		{Timestamp: "2024-03-01T09:00:00.000+0000", From: "Backlog", To: "In Progress"},
	}

	transitions, err := n.Normalize("FL-1", records)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(transitions) != 2 {
		t.Fatalf("Expected 2 transitions, got %d", len(transitions))
	}
	if transitions[0].To != "In Progress" || transitions[1].To != "Done" {
		t.Errorf("Transitions not in chronological order: %v", transitions)
	}
}

func TestNormalizeKeepsSourceOrderOnTies(t *testing.T) {
	n := NewNormalizer()
	ts := "2024-03-01T09:00:00.000+0000"
	records := []ChangeRecord{
		{Timestamp: ts, From: "Backlog", To: "Selected"},
		{Timestamp: ts, From: "Selected", To: "In Progress"},
	}

	transitions, err := n.Normalize("FL-1", records)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if transitions[0].To != "Selected" || transitions[1].To != "In Progress" {
		t.Errorf("Tied timestamps should keep source order, got %v", transitions)
	}
}

func TestNormalizeDropsDuplicates(t *testing.T) {
	n := NewNormalizer()
	ts := "2024-03-01T09:00:00.000+0000"
	records := []ChangeRecord{
		{Timestamp: ts, From: "Backlog", To: "In Progress"},
		{Timestamp: ts, From: "Backlog", To: "In Progress"},
	}

	transitions, err := n.Normalize("FL-1", records)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(transitions) != 1 {
		t.Errorf("Expected duplicate (timestamp, destination) pair to be dropped, got %d transitions", len(transitions))
	}
}

func TestNormalizeMissingTimestamp(t *testing.T) {
	n := NewNormalizer()
	records := []ChangeRecord{
		{Timestamp: "2024-03-01T09:00:00.000+0000", From: "Backlog", To: "In Progress"},
		{From: "In Progress", To: "Done"},
	}

	_, err := n.Normalize("FL-2", records)
	if err == nil {
		t.Fatal("Expected error for missing timestamp")
	}
	var malformed *MalformedChangelogError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedChangelogError, got %T", err)
	}
	if malformed.Key != "FL-2" || malformed.Index != 1 {
		t.Errorf("Expected key FL-2 index 1, got key %s index %d", malformed.Key, malformed.Index)
	}
}

func TestNormalizeUnparsableTimestamp(t *testing.T) {
	n := NewNormalizer()
	records := []ChangeRecord{
		{Timestamp: "not-a-date", From: "Backlog", To: "In Progress"},
	}

	_, err := n.Normalize("FL-3", records)
	var malformed *MalformedChangelogError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedChangelogError, got %v", err)
	}
	if malformed.Timestamp != "not-a-date" {
		t.Errorf("Expected offending value in error, got %q", malformed.Timestamp)
	}
}

func TestNormalizeAcceptsRFC3339(t *testing.T) {
	n := NewNormalizer()
	records := []ChangeRecord{
		{Timestamp: "2024-03-01T09:00:00Z", From: "Backlog", To: "In Progress"},
	}

	transitions, err := n.Normalize("FL-4", records)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	if !transitions[0].At.Equal(want) {
		t.Errorf("Expected %v, got %v", want, transitions[0].At)
	}
}
