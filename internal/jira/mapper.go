package jira

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"flowlens/internal/flow"
)

// MapIssue transforms a Jira DTO into a domain issue. The changelog is
// reduced to status changes only and normalized into chronological order.
// A missing or unparsable created timestamp makes the whole issue malformed.
func MapIssue(item IssueDTO, norm flow.Normalizer, classifier flow.Classifier) (flow.Issue, error) {
	created, err := ParseTime(item.Fields.Created)
	if err != nil {
		return flow.Issue{}, &flow.MalformedChangelogError{
			Key:       item.Key,
			Timestamp: item.Fields.Created,
			Err:       fmt.Errorf("created: %w", err),
		}
	}

	issue := flow.Issue{
		Key:     item.Key,
		Summary: item.Fields.Summary,
		Status:  item.Fields.Status.Name,
		Created: created,
	}
	if item.Fields.Assignee != nil {
		issue.Assignee = item.Fields.Assignee.DisplayName
	}
	if item.Fields.Parent != nil {
		issue.ParentKey = item.Fields.Parent.Key
		issue.ParentSummary = item.Fields.Parent.Fields.Summary
	}
	if item.Fields.ResolutionDate != "" {
		if t, err := ParseTime(item.Fields.ResolutionDate); err == nil {
			issue.Resolved = &t
		}
	}

	if classifier.Enabled() {
		issue.Category = classifier.Classify(item.Fields.Custom[classifier.FieldID])
	}

	if item.Changelog != nil {
		issue.Transitions, err = norm.Normalize(item.Key, statusRecords(item.Changelog))
		if err != nil {
			return flow.Issue{}, err
		}
	}

	return issue, nil
}

// MapIssues maps every DTO, collecting malformed issues as exclusions
// instead of failing the run.
func MapIssues(items []IssueDTO, norm flow.Normalizer, classifier flow.Classifier) ([]flow.Issue, []flow.Exclusion) {
	issues := make([]flow.Issue, 0, len(items))
	var excluded []flow.Exclusion

	for _, item := range items {
		issue, err := MapIssue(item, norm, classifier)
		if err != nil {
			var malformed *flow.MalformedChangelogError
			if errors.As(err, &malformed) {
				log.Warn().Str("key", item.Key).Err(err).Msg("Excluding issue with malformed changelog")
			}
			excluded = append(excluded, flow.Exclusion{Key: item.Key, Reason: err.Error()})
			continue
		}
		issues = append(issues, issue)
	}

	return issues, excluded
}

func statusRecords(changelog *ChangelogDTO) []flow.ChangeRecord {
	var records []flow.ChangeRecord
	for _, h := range changelog.Histories {
		for _, itm := range h.Items {
			if itm.Field != "status" {
				continue
			}
			records = append(records, flow.ChangeRecord{
				Timestamp: h.Created,
				From:      itm.FromString,
				To:        itm.ToString,
			})
		}
	}
	return records
}
