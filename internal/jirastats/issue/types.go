package issue

// Record holds the fields of a Jira issue that end up in the report.
// Timestamps are kept in the tracker's wire format; an empty string means absent.
type Record struct {
	ID             string
	Key            string
	CreatedAt      string
	ResolvedAt     string
	IssueType      string
	Status         string
	StatusCategory string
	// Resolution is empty when the issue is unresolved
	Resolution string
	// WorkStartedAt is derived from the issue changelog, see changelog.FindFirstWorkStartedDate
	WorkStartedAt string
}

// ChangelogEntry is a single revision in the history of an issue
type ChangelogEntry struct {
	CreatedAt string
	Items     []ChangelogItem
}

// ChangelogItem represents a change of a single field within a revision
type ChangelogItem struct {
	Field      string
	FromString string
	ToString   string
}

// StatusField is the changelog field name of status transitions
const StatusField = "status"
