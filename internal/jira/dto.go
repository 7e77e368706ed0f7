package jira

import (
	"encoding/json"
	"time"

	"flowlens/internal/flow"
)

// SearchRequest is the body of POST /rest/api/3/search/jql. The enhanced
// search endpoint paginates with an opaque nextPageToken cursor, not startAt.
type SearchRequest struct {
	JQL           string   `json:"jql"`
	MaxResults    int      `json:"maxResults"`
	Fields        []string `json:"fields"`
	Expand        []string `json:"expand,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

// SearchResponse is one page of enhanced search results.
type SearchResponse struct {
	Issues        []IssueDTO `json:"issues"`
	IsLast        bool       `json:"isLast"`
	NextPageToken string     `json:"nextPageToken"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	Key       string        `json:"key"`
	Fields    FieldsDTO     `json:"fields"`
	Changelog *ChangelogDTO `json:"changelog,omitempty"`
}

// FieldsDTO holds the named fields we always request, plus every other field
// Jira returned keyed by field id. Custom keeps the raw values so the
// classification field id can stay per-instance configuration.
type FieldsDTO struct {
	Summary        string     `json:"summary"`
	Status         StatusDTO  `json:"status"`
	Assignee       *PersonDTO `json:"assignee"`
	Created        string     `json:"created"`
	ResolutionDate string     `json:"resolutiondate"`
	Parent         *ParentDTO `json:"parent"`

	Custom map[string]any `json:"-"`
}

func (f *FieldsDTO) UnmarshalJSON(data []byte) error {
	type alias FieldsDTO
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var custom map[string]any
	if err := json.Unmarshal(data, &custom); err != nil {
		return err
	}
	*f = FieldsDTO(known)
	f.Custom = custom
	return nil
}

// MarshalJSON folds the captured custom fields back beside the named ones,
// so generated fixtures round-trip through the same shape Jira serves.
func (f FieldsDTO) MarshalJSON() ([]byte, error) {
	type alias FieldsDTO
	data, err := json.Marshal(alias(f))
	if err != nil {
		return nil, err
	}
	if len(f.Custom) == 0 {
		return data, nil
	}
	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range f.Custom {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// StatusDTO is an embedded status object.
type StatusDTO struct {
	Name string `json:"name"`
}

// PersonDTO is an embedded user object.
type PersonDTO struct {
	DisplayName string `json:"displayName"`
}

// ParentDTO is the embedded parent issue reference.
type ParentDTO struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// ChangelogDTO contains historical transitions. Jira returns histories
// newest first; ordering is normalized downstream.
type ChangelogDTO struct {
	Histories []HistoryDTO `json:"histories"`
}

// HistoryDTO is a single entry in the changelog.
type HistoryDTO struct {
	Created string    `json:"created"`
	Items   []ItemDTO `json:"items"`
}

// ItemDTO is a single field change within a history entry.
type ItemDTO struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// ParseTime parses a Jira timestamp, accepting the cloud millisecond layout
// and plain RFC 3339.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(flow.JiraTimeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
