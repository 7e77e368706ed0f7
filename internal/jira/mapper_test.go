package jira

import (
	"encoding/json"
	"testing"
	"time"

	"flowlens/internal/flow"
)

func TestMapIssue(t *testing.T) {
	dto := IssueDTO{
		Key: "FL-1",
		Fields: FieldsDTO{
			Summary:        "Fix the flaky import",
			Status:         StatusDTO{Name: "Done"},
			Assignee:       &PersonDTO{DisplayName: "Ada"},
			Created:        "2024-01-02T08:00:00.000+0000",
			ResolutionDate: "2024-01-10T16:00:00.000+0000",
			Custom: map[string]any{
				"customfield_10239": []any{map[string]any{"value": "KTLO"}},
			},
		},
		Changelog: &ChangelogDTO{
			// Jira returns histories newest first.
			Histories: []HistoryDTO{
				{
					Created: "2024-01-10T16:00:00.000+0000",
					Items: []ItemDTO{
						{Field: "status", FromString: "In Progress", ToString: "Done"},
					},
				},
				{
					Created: "2024-01-05T09:00:00.000+0000",
					Items: []ItemDTO{
						{Field: "assignee", FromString: "", ToString: "Ada"},
						{Field: "status", FromString: "Backlog", ToString: "In Progress"},
					},
				},
			},
		},
	}

	classifier := flow.Classifier{FieldID: "customfield_10239", MatchValue: "KTLO"}
	issue, err := MapIssue(dto, flow.NewNormalizer(), classifier)
	if err != nil {
		t.Fatalf("MapIssue returned error: %v", err)
	}

	if issue.Assignee != "Ada" {
		t.Errorf("Expected assignee Ada, got %q", issue.Assignee)
	}
	if issue.Category != flow.CategoryMaintenance {
		t.Errorf("Expected maintenance category, got %q", issue.Category)
	}
	if issue.Resolved == nil {
		t.Fatal("Expected resolution date to be parsed")
	}
	if len(issue.Transitions) != 2 {
		t.Fatalf("Expected 2 status transitions, got %d", len(issue.Transitions))
	}
	if issue.Transitions[0].To != "In Progress" || issue.Transitions[1].To != "Done" {
		t.Errorf("Transitions not chronological: %+v", issue.Transitions)
	}
}

func TestMapIssueParent(t *testing.T) {
	parent := &ParentDTO{Key: "FL-100"}
	parent.Fields.Summary = "Billing epic"

	dto := IssueDTO{
		Key: "FL-2",
		Fields: FieldsDTO{
			Status:  StatusDTO{Name: "Backlog"},
			Created: "2024-01-02T08:00:00.000+0000",
			Parent:  parent,
		},
	}

	issue, err := MapIssue(dto, flow.NewNormalizer(), flow.Classifier{})
	if err != nil {
		t.Fatalf("MapIssue returned error: %v", err)
	}
	if issue.ParentKey != "FL-100" || issue.ParentSummary != "Billing epic" {
		t.Errorf("Parent not mapped: %+v", issue)
	}
}

func TestMapIssuesCollectsMalformed(t *testing.T) {
	dtos := []IssueDTO{
		{
			Key:    "FL-1",
			Fields: FieldsDTO{Status: StatusDTO{Name: "Backlog"}, Created: "2024-01-02T08:00:00.000+0000"},
		},
		{
			Key:    "FL-2",
			Fields: FieldsDTO{Status: StatusDTO{Name: "Backlog"}, Created: "garbage"},
		},
		{
			Key:    "FL-3",
			Fields: FieldsDTO{Status: StatusDTO{Name: "Done"}, Created: "2024-01-03T08:00:00.000+0000"},
			Changelog: &ChangelogDTO{Histories: []HistoryDTO{
				{Created: "also-garbage", Items: []ItemDTO{{Field: "status", FromString: "Backlog", ToString: "Done"}}},
			}},
		},
	}

	issues, excluded := MapIssues(dtos, flow.NewNormalizer(), flow.Classifier{})
	if len(issues) != 1 || issues[0].Key != "FL-1" {
		t.Errorf("Expected only FL-1 mapped, got %+v", issues)
	}
	if len(excluded) != 2 {
		t.Fatalf("Expected 2 exclusions, got %d", len(excluded))
	}
}

func TestFieldsDTOUnmarshalCapturesCustomFields(t *testing.T) {
	raw := `{
		"summary": "Tune the cache",
		"status": {"name": "In Progress"},
		"created": "2024-01-02T08:00:00.000+0000",
		"customfield_10239": {"value": "KTLO"}
	}`

	var fields FieldsDTO
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if fields.Summary != "Tune the cache" {
		t.Errorf("Named field lost: %q", fields.Summary)
	}
	option, ok := fields.Custom["customfield_10239"].(map[string]any)
	if !ok || option["value"] != "KTLO" {
		t.Errorf("Custom field not captured: %+v", fields.Custom)
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-01-02T08:00:00.000+0000")
	if err != nil {
		t.Fatalf("ParseTime failed: %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected time: %v", got)
	}

	if _, err := ParseTime("2024-01-02T08:00:00Z"); err != nil {
		t.Errorf("RFC 3339 should be accepted: %v", err)
	}
}
