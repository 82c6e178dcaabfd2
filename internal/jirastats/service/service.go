package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aarosystems/jira-stats/internal/jirastats/changelog"
	"github.com/aarosystems/jira-stats/internal/jirastats/issue"
	"github.com/aarosystems/jira-stats/internal/jirastats/report"
	"github.com/aarosystems/jira-stats/internal/jirastats/ui"
)

// Tracker is the issue tracker the export reads from.
//
// FetchIssues failures abort the export. FetchChangelog failures only affect the
// issue whose changelog was requested.
type Tracker interface {
	FetchIssues(ctx context.Context, jql string) ([]issue.Record, error)
	FetchChangelog(ctx context.Context, issueKey string) ([]issue.ChangelogEntry, error)
}

// Service orchestrates the export
type Service struct {
	tracker Tracker
	log     logrus.FieldLogger
}

// NewService creates a new service instance
func NewService(tracker Tracker, log logrus.FieldLogger) *Service {
	return &Service{
		tracker: tracker,
		log:     log,
	}
}

// CollectOptions contains options for collecting annotated issues
type CollectOptions struct {
	JQL               string
	WorkStartedStatus string
	// Progress is notified after each issue; nil disables progress reporting
	Progress ui.Reporter
}

// ExportOptions contains options for a full export
type ExportOptions struct {
	CollectOptions
	OutputPath string
	Format     report.Format
}

// Stats summarizes an export
type Stats struct {
	Issues            int
	WithWorkStarted   int
	ChangelogFailures int
}

// CollectIssues fetches the issues matching the query and annotates each one with
// the first time it entered the work started status. Issues are processed one at a
// time, in the order Jira returned them.
func (s *Service) CollectIssues(ctx context.Context, opts CollectOptions) ([]issue.Record, Stats, error) {
	progress := opts.Progress
	if progress == nil {
		progress = ui.Discard{}
	}

	issues, err := s.tracker.FetchIssues(ctx, opts.JQL)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to fetch issues: %w", err)
	}
	s.log.Infof("- Got %d issues", len(issues))
	s.log.Infof("- Getting first time each issue entered the '%s' status", opts.WorkStartedStatus)

	stats := Stats{Issues: len(issues)}
	total := len(issues)
	progress.Start(total)
	for i := range issues {
		record := &issues[i]

		history, err := s.tracker.FetchChangelog(ctx, record.Key)
		if err != nil {
			s.log.WithError(err).WithField("issue", record.Key).Warn("Cannot fetch changelog, work started date will be empty")
			stats.ChangelogFailures++
			history = nil
		}

		if !changelog.SortChronologically(history) {
			s.log.WithField("issue", record.Key).Debug("Changelog has unparseable timestamps, scanning it in the order returned")
		}

		if startedAt, found := changelog.FindFirstWorkStartedDate(history, opts.WorkStartedStatus); found {
			record.WorkStartedAt = startedAt
			stats.WithWorkStarted++
		}

		progress.Step(i+1, total, record.Key)
	}
	progress.Finish()

	return issues, stats, nil
}

// Export collects the annotated issues and writes them to the output file. When the
// issue query fails, no file is written.
func (s *Service) Export(ctx context.Context, opts ExportOptions) (Stats, error) {
	issues, stats, err := s.CollectIssues(ctx, opts.CollectOptions)
	if err != nil {
		return Stats{}, err
	}

	s.log.Infof("- Writing result to '%s'", opts.OutputPath)
	if err := report.WriteFile(opts.OutputPath, opts.Format, issues); err != nil {
		return Stats{}, fmt.Errorf("failed to write report: %w", err)
	}

	return stats, nil
}
