package commands

import (
	"fmt"

	"flowlens/internal/flow"
	"flowlens/internal/jira"
)

func classifier() flow.Classifier {
	return flow.Classifier{FieldID: cfg.CategoryField, MatchValue: cfg.CategoryMatch}
}

func requireProject() error {
	if cfg.Project == "" {
		return fmt.Errorf("no Jira project configured (set JIRA_PROJECT)")
	}
	return nil
}

// fetchCompleted pulls issues the project finished inside the window, with
// changelogs expanded for interval extraction.
func fetchCompleted(window flow.AnalysisWindow) ([]flow.Issue, []flow.Exclusion, error) {
	jql := jira.CompletedJQL(cfg.Project, cfg.CycleTerminalStatus, window.Start)
	dtos, err := jiraClient.SearchAll(jql, jira.SearchFields(cfg.CategoryField), true)
	if err != nil {
		return nil, nil, err
	}
	issues, malformed := jira.MapIssues(dtos, flow.NewNormalizer(), classifier())
	return issues, malformed, nil
}

// fetchInProgress pulls issues currently in the working status or that
// passed through it inside the window. Needed for WIP sampling because
// completed-only queries miss work still on the board.
func fetchInProgress(window flow.AnalysisWindow) ([]flow.Issue, []flow.Exclusion, error) {
	jql := jira.InProgressJQL(cfg.Project, cfg.WipStatus, window.Start)
	dtos, err := jiraClient.SearchAll(jql, jira.SearchFields(cfg.CategoryField), true)
	if err != nil {
		return nil, nil, err
	}
	issues, malformed := jira.MapIssues(dtos, flow.NewNormalizer(), classifier())
	return issues, malformed, nil
}

// mergeIssues combines two issue sets, keeping the first occurrence of each key.
func mergeIssues(sets ...[]flow.Issue) []flow.Issue {
	seen := make(map[string]bool)
	var merged []flow.Issue
	for _, set := range sets {
		for _, issue := range set {
			if seen[issue.Key] {
				continue
			}
			seen[issue.Key] = true
			merged = append(merged, issue)
		}
	}
	return merged
}

// mergeExclusions combines exclusion lists, keeping the first per key.
func mergeExclusions(sets ...[]flow.Exclusion) []flow.Exclusion {
	seen := make(map[string]bool)
	var merged []flow.Exclusion
	for _, set := range sets {
		for _, e := range set {
			if seen[e.Key] {
				continue
			}
			seen[e.Key] = true
			merged = append(merged, e)
		}
	}
	return merged
}

// durationStats runs the shared duration pipeline for one metric: window
// filtering, optional clamping, grouping and z-score identification.
func durationStats(issues []flow.Issue, window flow.AnalysisWindow, kind flow.MetricKind, pair flow.StatusPair) (samples []flow.MetricSample, byMonth, byAssignee []flow.GroupStat, outliers []flow.ZScoreOutlier) {
	all, _ := flow.ComputeSamples(issues, kind, pair)

	for _, s := range all {
		if window.Contains(s.Completed) {
			samples = append(samples, s)
		}
	}
	if cfg.ClampToWindow {
		samples = flow.ClampToWindow(samples, window)
	}

	policy := flow.OutlierPolicy{
		Mode:      flow.OutlierMode(cfg.OutlierMode),
		CapDays:   cfg.OutlierCapDays,
		IQRFactor: cfg.OutlierIQRFactor,
	}
	byMonth = flow.GroupSamples(samples, flow.GroupByMonth, cfg.MinGroupSamples, policy)
	byAssignee = flow.GroupSamples(samples, flow.GroupByAssignee, cfg.MinGroupSamples, policy)
	outliers = flow.IdentifyOutliers(samples, cfg.ZScoreThreshold)
	return samples, byMonth, byAssignee, outliers
}
