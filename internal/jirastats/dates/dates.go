package dates

import (
	"fmt"
	"time"
)

const (
	// JiraLayout is the timestamp layout Jira uses on the wire, e.g. 2024-01-10T14:30:00.000+0000
	JiraLayout = "2006-01-02T15:04:05.999999999-0700"
	// DisplayLayout is the layout of timestamps in the report
	DisplayLayout = "2006-01-02 15:04:05"
)

// Parse parses a Jira wire timestamp. Offsets written with a colon are accepted too.
func Parse(raw string) (time.Time, error) {
	t, err := time.Parse(JiraLayout, raw)
	if err == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339Nano, raw); rfcErr == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q: %w", raw, err)
}

// Normalize converts a Jira timestamp into DisplayLayout, keeping the wall clock of
// the original offset. Empty or unparseable input yields an empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := Parse(raw)
	if err != nil {
		return ""
	}
	return t.Format(DisplayLayout)
}
