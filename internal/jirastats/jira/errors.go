package jira

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andygrunwald/go-jira"
)

// QueryError is returned when the issue search fails. Nothing can be reported
// without the issue set, so callers should treat it as fatal for the whole export.
type QueryError struct {
	JQL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *QueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("error fetching issues for %q: %d %s", e.JQL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("error fetching issues for %q: %v", e.JQL, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ChangelogError is returned when the history of a single issue cannot be fetched.
// It only affects that issue's record.
type ChangelogError struct {
	IssueKey   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ChangelogError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("error fetching changelog for issue %s: %d %s", e.IssueKey, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("error fetching changelog for issue %s: %v", e.IssueKey, e.Err)
}

func (e *ChangelogError) Unwrap() error {
	return e.Err
}

// failedResponse returns the status code and body of a non-success response.
// Zero status means the request did not produce a response at all.
func failedResponse(resp *jira.Response) (int, string) {
	if resp == nil || resp.Response == nil {
		return 0, ""
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return 0, ""
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, strings.TrimSpace(string(body))
}
