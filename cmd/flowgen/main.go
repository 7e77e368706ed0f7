package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"flowlens/internal/flow"
	"flowlens/internal/jira"
)

// flowgen produces a synthetic Jira search response with changelogs, useful
// for demoing and stress-testing the analysis pipeline without tracker
// access. Scenarios shape the cycle time distribution: mild is a healthy
// team, chaos has fat tails, drift degrades over the generated period.

type generatorConfig struct {
	Scenario     string
	Distribution string // "uniform" or "weibull"
	Count        int
	Project      string
	Now          time.Time
}

var assignees = []string{"Ada", "Grace", "Edsger", "Barbara", ""}

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	out := flag.String("out", "issues.json", "Output file for the generated search response")
	count := flag.Int("count", 200, "Number of issues to generate")
	project := flag.String("project", "FL", "Project key prefix for issue keys")
	flag.Parse()

	cfg := generatorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Project:      *project,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *out)

	resp := generate(cfg)
	if err := save(*out, resp); err != nil {
		fmt.Printf("Failed to save generated issues: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}

func generate(cfg generatorConfig) jira.SearchResponse {
	resp := jira.SearchResponse{IsLast: true}

	// One arrival per day, the last one today.
	tArrival := cfg.Now.AddDate(0, 0, -cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		key := fmt.Sprintf("%s-%d", cfg.Project, i+1)
		created := tArrival.Add(time.Duration(i*24) * time.Hour)

		k, lambda := 2.5, 9.5 // mild: roughly 5 day in-progress residency
		switch cfg.Scenario {
		case "chaos":
			k = 0.8
			if cfg.Distribution == "weibull" {
				lambda = 12.0
			}
		case "drift":
			ratio := float64(i) / float64(cfg.Count)
			k = 2.5 - (1.7 * ratio)
			lambda = 9.5 + (2.5 * ratio)
		}

		var totalDays float64
		if cfg.Distribution == "weibull" {
			totalDays = weibullSample(k, lambda)
		} else {
			totalDays = 6.0 + rand.Float64()*5.0
			if cfg.Scenario == "chaos" && rand.Float64() < 0.2 {
				totalDays *= 4 // fat tail
			}
		}

		// Backlog residency takes roughly 40% of the total.
		started := created.Add(time.Duration(totalDays * 0.4 * 24 * float64(time.Hour)))
		resolved := created.Add(time.Duration(totalDays * 24 * float64(time.Hour)))

		issue := jira.IssueDTO{
			Key: key,
			Fields: jira.FieldsDTO{
				Summary: fmt.Sprintf("Generated issue %d", i+1),
				Created: created.Format(flow.JiraTimeLayout),
			},
			Changelog: &jira.ChangelogDTO{},
		}

		if name := assignees[rand.Intn(len(assignees))]; name != "" {
			issue.Fields.Assignee = &jira.PersonDTO{DisplayName: name}
		}

		// Roughly a third of the work is maintenance.
		category := "Roadmap"
		if rand.Float64() < 0.33 {
			category = "KTLO"
		}
		issue.Fields.Custom = map[string]any{
			"customfield_10239": map[string]any{"value": category},
		}

		addStatusChange(issue.Changelog, started, "Backlog", "In Progress")

		if resolved.Before(cfg.Now) {
			issue.Fields.Status = jira.StatusDTO{Name: "Done"}
			issue.Fields.ResolutionDate = resolved.Format(flow.JiraTimeLayout)
			addStatusChange(issue.Changelog, resolved, "In Progress", "Done")
		} else {
			issue.Fields.Status = jira.StatusDTO{Name: "In Progress"}
		}

		resp.Issues = append(resp.Issues, issue)
	}

	return resp
}

func addStatusChange(changelog *jira.ChangelogDTO, at time.Time, from, to string) {
	changelog.Histories = append(changelog.Histories, jira.HistoryDTO{
		Created: at.Format(flow.JiraTimeLayout),
		Items: []jira.ItemDTO{
			{Field: "status", FromString: from, ToString: to},
		},
	})
}

// weibullSample draws from a Weibull distribution via inverse transform.
func weibullSample(k, lambda float64) float64 {
	u := rand.Float64()
	return lambda * math.Pow(-math.Log(1-u), 1/k)
}

func save(path string, resp jira.SearchResponse) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
