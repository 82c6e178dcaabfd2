package changelog

import (
	"sort"
	"strings"
	"time"

	"github.com/aarosystems/jira-stats/internal/jirastats/dates"
	"github.com/aarosystems/jira-stats/internal/jirastats/issue"
)

// FindFirstWorkStartedDate returns the timestamp of the first entry in history that
// moves the issue into targetStatus. Status names are matched case-insensitively.
//
// History is scanned in the given order, so callers must pass it oldest first
// (see SortChronologically). The second return value is false when no entry
// records such a transition. This includes issues that currently are in
// targetStatus but whose transition is missing from the retrieved history.
func FindFirstWorkStartedDate(history []issue.ChangelogEntry, targetStatus string) (string, bool) {
	for _, entry := range history {
		for _, item := range entry.Items {
			if item.Field != issue.StatusField {
				continue
			}
			if strings.EqualFold(item.ToString, targetStatus) {
				return entry.CreatedAt, true
			}
		}
	}
	return "", false
}

// SortChronologically orders history oldest first, keeping the original order of
// entries with equal timestamps. When any timestamp cannot be parsed the history is
// left untouched and false is returned.
func SortChronologically(history []issue.ChangelogEntry) bool {
	created := make([]time.Time, len(history))
	for i, entry := range history {
		t, err := dates.Parse(entry.CreatedAt)
		if err != nil {
			return false
		}
		created[i] = t
	}

	sort.Stable(byCreated{entries: history, created: created})
	return true
}

type byCreated struct {
	entries []issue.ChangelogEntry
	created []time.Time
}

func (b byCreated) Len() int           { return len(b.entries) }
func (b byCreated) Less(i, j int) bool { return b.created[i].Before(b.created[j]) }
func (b byCreated) Swap(i, j int) {
	b.entries[i], b.entries[j] = b.entries[j], b.entries[i]
	b.created[i], b.created[j] = b.created[j], b.created[i]
}
