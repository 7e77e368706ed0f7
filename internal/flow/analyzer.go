package flow

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Config carries every per-run analysis parameter consumed by the core.
// It is validated once against the dataset before any metric is computed.
type Config struct {
	Window    AnalysisWindow
	LeadPair  StatusPair // default Backlog -> Done
	CyclePair StatusPair // default In Progress -> Done
	WipStatus string     // default In Progress

	Classifier Classifier

	Outliers        OutlierPolicy
	ClampToWindow   bool
	ZScoreThreshold float64

	WipMonthly             WipMonthlyMode
	MinGroupSize           int
	IncludeUnknownInSplits bool
}

// DefaultConfig returns a Config with the conventional Kanban status names
// for the given window. Status names remain per-tracker configuration.
func DefaultConfig(window AnalysisWindow) Config {
	return Config{
		Window:     window,
		LeadPair:   StatusPair{Entry: "Backlog", Terminal: "Done"},
		CyclePair:  StatusPair{Entry: "In Progress", Terminal: "Done"},
		WipStatus:  "In Progress",
		WipMonthly: WipMonthlyEndOfMonth,
	}
}

// Report is the complete outbound result of one analysis run: plain tabular
// and time-series structures with no rendering dependency.
type Report struct {
	Window AnalysisWindow `json:"window"`

	// Raw per-issue samples, including later-excluded outliers.
	LeadSamples  []MetricSample `json:"leadSamples,omitempty"`
	CycleSamples []MetricSample `json:"cycleSamples,omitempty"`

	LeadByMonth     []GroupStat `json:"leadByMonth,omitempty"`
	CycleByMonth    []GroupStat `json:"cycleByMonth,omitempty"`
	LeadByAssignee  []GroupStat `json:"leadByAssignee,omitempty"`
	CycleByAssignee []GroupStat `json:"cycleByAssignee,omitempty"`

	DailyWip   []WipSnapshot `json:"dailyWip,omitempty"`
	MonthlyWip []MonthlyWip  `json:"monthlyWip,omitempty"`

	Throughput           []ThroughputBucket `json:"throughput,omitempty"`
	AvgMonthlyThroughput float64            `json:"avgMonthlyThroughput"`

	LeadZScoreOutliers  []ZScoreOutlier `json:"leadZScoreOutliers,omitempty"`
	CycleZScoreOutliers []ZScoreOutlier `json:"cycleZScoreOutliers,omitempty"`

	Exclusions ExclusionReport `json:"exclusions"`
}

// Analyzer runs the full metric pipeline over an immutable issue set. All
// computation is synchronous and side-effect free; every invocation builds
// fresh output.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an Analyzer for the given configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Run validates the configuration against the dataset, then derives duration
// samples, WIP series, throughput buckets and period aggregates. Malformed
// issues already excluded by the mapper are passed in so the exclusion
// report stays complete.
func (a *Analyzer) Run(issues []Issue, malformed []Exclusion) (*Report, error) {
	if err := a.validate(issues); err != nil {
		return nil, err
	}

	rep := &Report{
		Window: a.cfg.Window,
		Exclusions: ExclusionReport{
			TotalIssues: len(issues) + len(malformed),
			Malformed:   malformed,
		},
	}

	for _, issue := range issues {
		if a.cfg.Classifier.Enabled() && issue.Category == CategoryUnknown {
			rep.Exclusions.Unclassified = append(rep.Exclusions.Unclassified, Exclusion{
				Key:    issue.Key,
				Reason: "classification field absent",
			})
		}
	}

	rep.LeadSamples, rep.Exclusions.MissingLead = a.durationSeries(issues, LeadTime, a.cfg.LeadPair)
	rep.CycleSamples, rep.Exclusions.MissingCycle = a.durationSeries(issues, CycleTime, a.cfg.CyclePair)

	rep.LeadZScoreOutliers = IdentifyOutliers(rep.LeadSamples, a.cfg.ZScoreThreshold)
	rep.CycleZScoreOutliers = IdentifyOutliers(rep.CycleSamples, a.cfg.ZScoreThreshold)

	_, leadExcluded := a.cfg.Outliers.Apply(rep.LeadSamples)
	rep.Exclusions.LeadOutliers = toExclusions(leadExcluded)
	_, cycleExcluded := a.cfg.Outliers.Apply(rep.CycleSamples)
	rep.Exclusions.CycleOutliers = toExclusions(cycleExcluded)

	rep.LeadByMonth = GroupSamples(rep.LeadSamples, GroupByMonth, a.cfg.MinGroupSize, a.cfg.Outliers)
	rep.CycleByMonth = GroupSamples(rep.CycleSamples, GroupByMonth, a.cfg.MinGroupSize, a.cfg.Outliers)
	rep.LeadByAssignee = GroupSamples(rep.LeadSamples, GroupByAssignee, a.cfg.MinGroupSize, a.cfg.Outliers)
	rep.CycleByAssignee = GroupSamples(rep.CycleSamples, GroupByAssignee, a.cfg.MinGroupSize, a.cfg.Outliers)

	rep.DailyWip, rep.Exclusions.InferredWip = SampleDailyWIP(issues, a.cfg.Window, a.cfg.WipStatus)
	rep.MonthlyWip = ReduceMonthlyWIP(rep.DailyWip, a.cfg.WipMonthly)

	rep.Throughput = AggregateThroughput(issues, a.cfg.Window, a.cfg.CyclePair.Terminal, a.cfg.IncludeUnknownInSplits)
	rep.AvgMonthlyThroughput = AverageMonthlyThroughput(rep.Throughput)

	for _, line := range rep.Exclusions.Lines() {
		log.Info().Msg(line)
	}

	return rep, nil
}

// durationSeries computes samples for one metric, keeping only completions
// inside the analysis window and clamping when configured.
func (a *Analyzer) durationSeries(issues []Issue, kind MetricKind, pair StatusPair) ([]MetricSample, []Exclusion) {
	samples, excluded := ComputeSamples(issues, kind, pair)

	windowed := samples[:0:0]
	for _, s := range samples {
		if a.cfg.Window.Contains(s.Completed) {
			windowed = append(windowed, s)
		}
	}

	if a.cfg.ClampToWindow {
		windowed = ClampToWindow(windowed, a.cfg.Window)
	}
	return windowed, excluded
}

// validate surfaces setup mismatches before computation: a configured status
// or classification field that never appears in the dataset points at the
// configuration, not the data.
func (a *Analyzer) validate(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	for _, issue := range issues {
		seen[strings.ToLower(issue.Status)] = true
		for _, t := range issue.Transitions {
			seen[strings.ToLower(t.From)] = true
			seen[strings.ToLower(t.To)] = true
		}
	}

	checks := []struct {
		setting string
		status  string
	}{
		{"lead entry status", a.cfg.LeadPair.Entry},
		{"lead terminal status", a.cfg.LeadPair.Terminal},
		{"cycle entry status", a.cfg.CyclePair.Entry},
		{"cycle terminal status", a.cfg.CyclePair.Terminal},
		{"wip status", a.cfg.WipStatus},
	}
	for _, c := range checks {
		if c.status == "" {
			return &ConfigurationError{Setting: c.setting, Reason: "not set"}
		}
		if !seen[strings.ToLower(c.status)] {
			return &ConfigurationError{
				Setting: c.setting,
				Value:   c.status,
				Reason:  "status never appears in the dataset",
			}
		}
	}

	if a.cfg.Classifier.Enabled() {
		anyClassified := false
		for _, issue := range issues {
			if issue.Category != CategoryUnknown {
				anyClassified = true
				break
			}
		}
		if !anyClassified {
			return &ConfigurationError{
				Setting: "classification field",
				Value:   a.cfg.Classifier.FieldID,
				Reason:  "field never present on any issue in the dataset",
			}
		}
	}

	return nil
}

func toExclusions(samples []MetricSample) []Exclusion {
	if len(samples) == 0 {
		return nil
	}
	out := make([]Exclusion, len(samples))
	for i, s := range samples {
		out[i] = Exclusion{Key: s.Key, Reason: "duration beyond outlier bound"}
	}
	return out
}
