package jira

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the authentication and connection settings for Jira Cloud.
type Config struct {
	BaseURL string
	Email   string
	Token   string // API token, paired with Email for basic auth

	// Performance Settings
	RequestDelay time.Duration
	PageSize     int
}

// Client talks to the Jira Cloud enhanced search API.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	lastRequest time.Time
}

// NewClient creates a Jira client based on the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 500 * time.Millisecond
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 100
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *Client) throttle() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling Jira request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

// SearchAll walks every page of an enhanced search and returns the combined
// issue list. Pagination follows the nextPageToken cursor until Jira reports
// the last page.
func (c *Client) SearchAll(jql string, fields []string, withChangelog bool) ([]IssueDTO, error) {
	var (
		issues []IssueDTO
		token  string
	)
	var expand []string
	if withChangelog {
		expand = []string{"changelog"}
	}

	for {
		page, err := c.search(SearchRequest{
			JQL:           jql,
			MaxResults:    c.cfg.PageSize,
			Fields:        fields,
			Expand:        expand,
			NextPageToken: token,
		})
		if err != nil {
			return nil, err
		}
		issues = append(issues, page.Issues...)

		if page.IsLast || page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	log.Info().Int("count", len(issues)).Msg("Fetched issues from Jira")
	return issues, nil
}

func (c *Client) search(reqBody SearchRequest) (*SearchResponse, error) {
	c.throttle()

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	searchURL := c.cfg.BaseURL + "/rest/api/3/search/jql"
	log.Debug().Str("url", searchURL).Str("jql", reqBody.JQL).Msg("Jira search details")
	req, err := http.NewRequest("POST", searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Email, c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("Jira authentication failed (401/403). Please check your email and API token.")
		case http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			if retryAfter != "" {
				return nil, fmt.Errorf("Jira rate limit exceeded (429). Retry after %s seconds.", retryAfter)
			}
			return nil, fmt.Errorf("Jira rate limit exceeded (429).")
		default:
			return nil, fmt.Errorf("Jira API returned status %d. Please check Jira availability.", resp.StatusCode)
		}
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Jira response: %w", err)
	}

	return &result, nil
}

// CompletedJQL selects issues a project finished since the given date,
// skipping epics. Epics aggregate child work and would double-count flow.
func CompletedJQL(project, terminalStatus string, since time.Time) string {
	return fmt.Sprintf(
		`project = %s AND status = %q AND issuetype != Epic AND resolved >= %q ORDER BY resolved DESC`,
		project, terminalStatus, since.Format("2006-01-02"))
}

// InProgressJQL selects issues that are in the working status now or passed
// through it after the given date. The WAS clause catches issues that both
// entered and left the status inside the window.
func InProgressJQL(project, status string, since time.Time) string {
	return fmt.Sprintf(
		`project = %s AND (status = %q OR status WAS %q AFTER %q) AND issuetype != Epic ORDER BY created DESC`,
		project, status, status, since.Format("2006-01-02"))
}

// SearchFields is the default field set for metric queries. The extra field
// id carries the per-instance classification field when configured.
func SearchFields(classificationField string) []string {
	fields := []string{"summary", "status", "created", "resolutiondate", "assignee", "parent"}
	if classificationField != "" {
		fields = append(fields, classificationField)
	}
	return fields
}
