package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"flowlens/internal/flow"
)

var (
	warnColor  = color.New(color.FgYellow)
	titleColor = color.New(color.Bold)
	thinColor  = color.New(color.FgHiBlack).SprintFunc()
)

// Printer renders analysis output in the configured format.
type Printer struct {
	Format     Format
	OutputFile string
	Precision  int
}

func (p *Printer) fmtFloat(v float64) string {
	precision := p.Precision
	if precision == 0 {
		precision = 1
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// Report renders the complete analysis result. Table output prints every
// section; JSON emits the whole report; CSV emits the duration samples.
func (p *Printer) Report(rep *flow.Report) error {
	switch p.Format {
	case JSONFormat:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rep)
		}, "Wrote JSON report")
	case CSVFormat:
		return p.samplesCSV(append(append([]flow.MetricSample{}, rep.LeadSamples...), rep.CycleSamples...))
	default:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			p.throughputTable(w, rep.Throughput, rep.AvgMonthlyThroughput)
			p.groupTable(w, "Lead time by month (days)", rep.LeadByMonth)
			p.groupTable(w, "Cycle time by month (days)", rep.CycleByMonth)
			p.groupTable(w, "Lead time by assignee (days)", rep.LeadByAssignee)
			p.groupTable(w, "Cycle time by assignee (days)", rep.CycleByAssignee)
			p.wipTable(w, rep.MonthlyWip)
			p.outlierList(w, "Lead time outliers (z-score)", rep.LeadZScoreOutliers)
			p.outlierList(w, "Cycle time outliers (z-score)", rep.CycleZScoreOutliers)
			p.exclusionLines(w, rep.Exclusions)
			return nil
		}, "Wrote report")
	}
}

// Durations renders one duration metric: per-month and per-assignee
// aggregates plus the z-score outlier list.
func (p *Printer) Durations(title string, samples []flow.MetricSample, byMonth, byAssignee []flow.GroupStat, outliers []flow.ZScoreOutlier) error {
	switch p.Format {
	case JSONFormat:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"samples":    samples,
				"byMonth":    byMonth,
				"byAssignee": byAssignee,
				"outliers":   outliers,
			})
		}, "Wrote JSON "+title)
	case CSVFormat:
		return p.samplesCSV(samples)
	default:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			p.groupTable(w, title+" by month (days)", byMonth)
			p.groupTable(w, title+" by assignee (days)", byAssignee)
			p.outlierList(w, title+" outliers (z-score)", outliers)
			return nil
		}, "Wrote "+title)
	}
}

// Wip renders the WIP series and the optional per-issue drilldown.
func (p *Printer) Wip(daily []flow.WipSnapshot, monthly []flow.MonthlyWip, details []flow.WipDetail) error {
	switch p.Format {
	case JSONFormat:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			out := map[string]any{"daily": daily, "monthly": monthly}
			if details != nil {
				out["issues"] = details
			}
			return writeJSON(w, out)
		}, "Wrote JSON WIP series")
	case CSVFormat:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"date", "count"}, func(cw *csv.Writer) error {
				for _, s := range daily {
					if err := cw.Write([]string{flow.DayLabel(s.Date), strconv.Itoa(s.Count)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV WIP series")
	default:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			p.wipTable(w, monthly)
			if len(details) > 0 {
				p.wipDetailTable(w, details)
			}
			return nil
		}, "Wrote WIP series")
	}
}

// Throughput renders the monthly completion counts and category split.
func (p *Printer) Throughput(buckets []flow.ThroughputBucket, avg float64) error {
	switch p.Format {
	case JSONFormat:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{"buckets": buckets, "avgPerMonth": avg})
		}, "Wrote JSON throughput")
	case CSVFormat:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			header := []string{"month", "total", "maintenance", "project", "maintenance_pct", "project_pct"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, b := range buckets {
					row := []string{
						flow.MonthLabel(b.Month),
						strconv.Itoa(b.Total),
						strconv.Itoa(b.ByCategory[flow.CategoryMaintenance]),
						strconv.Itoa(b.ByCategory[flow.CategoryProject]),
						p.fmtFloat(b.Percent[flow.CategoryMaintenance]),
						p.fmtFloat(b.Percent[flow.CategoryProject]),
					}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV throughput")
	default:
		return writeWithFile(p.OutputFile, func(w io.Writer) error {
			p.throughputTable(w, buckets, avg)
			return nil
		}, "Wrote throughput")
	}
}

func (p *Printer) samplesCSV(samples []flow.MetricSample) error {
	return writeWithFile(p.OutputFile, func(w io.Writer) error {
		header := []string{"key", "metric", "days", "raw_days", "clamped", "completed", "category", "assignee"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, s := range samples {
				row := []string{
					s.Key,
					string(s.Kind),
					p.fmtFloat(s.Days),
					p.fmtFloat(s.RawDays),
					strconv.FormatBool(s.Clamped),
					flow.DayLabel(s.Completed),
					string(s.Category),
					s.Assignee,
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV samples")
}

func (p *Printer) throughputTable(w io.Writer, buckets []flow.ThroughputBucket, avg float64) {
	titleColor.Fprintln(w, "Throughput")

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Month", "Total", "Maintenance", "Project", "Maintenance %", "Project %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range buckets {
		row := []string{
			flow.MonthLabel(b.Month),
			strconv.Itoa(b.Total),
			strconv.Itoa(b.ByCategory[flow.CategoryMaintenance]),
			strconv.Itoa(b.ByCategory[flow.CategoryProject]),
			p.fmtFloat(b.Percent[flow.CategoryMaintenance]),
			p.fmtFloat(b.Percent[flow.CategoryProject]),
		}
		data = append(data, row)
	}
	_ = table.Bulk(data)
	_ = table.Render()

	fmt.Fprintf(w, "Average per month: %s\n\n", p.fmtFloat(avg))
}

func (p *Printer) groupTable(w io.Writer, title string, stats []flow.GroupStat) {
	if len(stats) == 0 {
		return
	}
	titleColor.Fprintln(w, title)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Count", "Excluded", "Mean", "Median"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range stats {
		key := s.Key
		if s.Thin {
			key = thinColor(key + " *")
		}
		data = append(data, []string{
			key,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Excluded),
			p.fmtFloat(s.Mean),
			p.fmtFloat(s.Median),
		})
	}
	_ = table.Bulk(data)
	_ = table.Render()

	for _, s := range stats {
		if s.Thin {
			fmt.Fprintln(w, thinColor("* fewer samples than the configured minimum"))
			break
		}
	}
	fmt.Fprintln(w)
}

func (p *Printer) wipTable(w io.Writer, monthly []flow.MonthlyWip) {
	if len(monthly) == 0 {
		return
	}
	titleColor.Fprintln(w, "Work in progress by month")

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Month", "WIP"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range monthly {
		data = append(data, []string{flow.MonthLabel(m.Month), p.fmtFloat(m.Value)})
	}
	_ = table.Bulk(data)
	_ = table.Render()
	fmt.Fprintln(w)
}

func (p *Printer) wipDetailTable(w io.Writer, details []flow.WipDetail) {
	titleColor.Fprintln(w, "Issues in progress")

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Assignee", "Start", "End", "Days"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range details {
		end := "open"
		if d.End != nil {
			end = flow.DayLabel(*d.End)
		}
		data = append(data, []string{
			d.Key,
			d.Assignee,
			flow.DayLabel(d.Start),
			end,
			p.fmtFloat(d.Days),
		})
	}
	_ = table.Bulk(data)
	_ = table.Render()
	fmt.Fprintln(w)
}

func (p *Printer) outlierList(w io.Writer, title string, outliers []flow.ZScoreOutlier) {
	if len(outliers) == 0 {
		return
	}
	titleColor.Fprintln(w, title)
	for _, o := range outliers {
		fmt.Fprintf(w, "  %s  %s days (z=%.2f)\n", o.Sample.Key, p.fmtFloat(o.Sample.Days), o.Z)
	}
	fmt.Fprintln(w)
}

func (p *Printer) exclusionLines(w io.Writer, exclusions flow.ExclusionReport) {
	for _, line := range exclusions.Lines() {
		warnColor.Fprintln(w, line)
	}
}
