package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/andygrunwald/go-jira"
	"github.com/sirupsen/logrus"

	"github.com/aarosystems/jira-stats/internal/flagutil"
	"github.com/aarosystems/jira-stats/internal/jirastats/issue"
)

const (
	apiPrefix = "rest/api/3"

	// IssuePageSize caps the number of issues fetched for a query. Issues beyond
	// the first page are not exported.
	IssuePageSize = 1000
	// ChangelogPageSize caps the number of changelog entries fetched per issue.
	// Older transitions beyond the first page are not seen.
	ChangelogPageSize = 1000
)

var searchFields = []string{"id", "key", "created", "resolutiondate", "status", "issuetype", "resolution"}

// Client fetches issues and their changelogs from Jira
type Client struct {
	jiraClient *jira.Client
	log        logrus.FieldLogger
}

// NewClient creates a new Jira client from the connection flags
func NewClient(jiraOptions flagutil.JiraOptions, log logrus.FieldLogger) (*Client, error) {
	jiraClient, err := jiraOptions.Client()
	if err != nil {
		return nil, fmt.Errorf("failed to create JIRA client: %w", err)
	}

	return &Client{
		jiraClient: jiraClient,
		log:        log,
	}, nil
}

type searchPage struct {
	StartAt    int           `json:"startAt"`
	MaxResults int           `json:"maxResults"`
	Total      int           `json:"total"`
	Issues     []searchIssue `json:"issues"`
}

type searchIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Created        string           `json:"created"`
		ResolutionDate string           `json:"resolutiondate"`
		IssueType      jira.IssueType   `json:"issuetype"`
		Status         *jira.Status     `json:"status"`
		Resolution     *jira.Resolution `json:"resolution"`
	} `json:"fields"`
}

type changelogPage struct {
	StartAt    int                     `json:"startAt"`
	MaxResults int                     `json:"maxResults"`
	Total      int                     `json:"total"`
	IsLast     bool                    `json:"isLast"`
	Values     []jira.ChangelogHistory `json:"values"`
}

// FetchIssues executes a JQL query and returns the matching issues. Only the first
// IssuePageSize issues are returned. Any failure is returned as *QueryError.
func (c *Client) FetchIssues(ctx context.Context, jql string) ([]issue.Record, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(IssuePageSize))
	q.Set("fields", strings.Join(searchFields, ","))

	var page searchPage
	statusCode, body, err := c.get(ctx, apiPrefix+"/search?"+q.Encode(), &page)
	if err != nil {
		return nil, &QueryError{JQL: jql, StatusCode: statusCode, Body: body, Err: err}
	}

	if page.Total > len(page.Issues) {
		c.log.Warnf("Query matched %d issues but only %d were returned, the rest will be missing from the report", page.Total, len(page.Issues))
	}

	result := make([]issue.Record, 0, len(page.Issues))
	for _, raw := range page.Issues {
		result = append(result, convertIssue(raw))
	}

	return result, nil
}

// FetchChangelog returns the change history of a single issue, as ordered by Jira.
// Only the first ChangelogPageSize entries are returned. Any failure is returned
// as *ChangelogError.
func (c *Client) FetchChangelog(ctx context.Context, issueKey string) ([]issue.ChangelogEntry, error) {
	q := url.Values{}
	q.Set("startAt", "0")
	q.Set("maxResults", strconv.Itoa(ChangelogPageSize))

	var page changelogPage
	u := fmt.Sprintf("%s/issue/%s/changelog?%s", apiPrefix, url.PathEscape(issueKey), q.Encode())
	statusCode, body, err := c.get(ctx, u, &page)
	if err != nil {
		return nil, &ChangelogError{IssueKey: issueKey, StatusCode: statusCode, Body: body, Err: err}
	}

	if !page.IsLast && page.Total > len(page.Values) {
		c.log.WithField("issue", issueKey).Warnf("Changelog has %d entries but only %d were returned", page.Total, len(page.Values))
	}

	result := make([]issue.ChangelogEntry, 0, len(page.Values))
	for _, history := range page.Values {
		result = append(result, convertHistory(history))
	}

	return result, nil
}

// get performs a single GET request and decodes the JSON response into v. On a
// non-success response the status code and body are returned along with the error.
func (c *Client) get(ctx context.Context, u string, v interface{}) (int, string, error) {
	req, err := c.jiraClient.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, "", fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.jiraClient.Do(req, v)
	if err != nil {
		statusCode, body := failedResponse(resp)
		return statusCode, body, err
	}

	return 0, "", nil
}

// convertIssue converts a search result issue to our issue Record
func convertIssue(raw searchIssue) issue.Record {
	status := ""
	statusCategory := ""
	if raw.Fields.Status != nil {
		status = raw.Fields.Status.Name
		statusCategory = raw.Fields.Status.StatusCategory.Name
	}

	// Unresolved issues have a null resolution
	resolution := ""
	if raw.Fields.Resolution != nil {
		resolution = raw.Fields.Resolution.Name
	}

	return issue.Record{
		ID:             raw.ID,
		Key:            raw.Key,
		CreatedAt:      raw.Fields.Created,
		ResolvedAt:     raw.Fields.ResolutionDate,
		IssueType:      raw.Fields.IssueType.Name,
		Status:         status,
		StatusCategory: statusCategory,
		Resolution:     resolution,
	}
}

func convertHistory(history jira.ChangelogHistory) issue.ChangelogEntry {
	items := make([]issue.ChangelogItem, 0, len(history.Items))
	for _, item := range history.Items {
		items = append(items, issue.ChangelogItem{
			Field:      item.Field,
			FromString: item.FromString,
			ToString:   item.ToString,
		})
	}

	return issue.ChangelogEntry{
		CreatedAt: history.Created,
		Items:     items,
	}
}
