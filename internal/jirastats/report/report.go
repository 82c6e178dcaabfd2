package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aarosystems/jira-stats/internal/jirastats/dates"
	"github.com/aarosystems/jira-stats/internal/jirastats/issue"
)

// Format is the serialization of the report
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Columns is the header row of the report
var Columns = []string{
	"ID",
	"Key",
	"Created Date",
	"Resolution Date",
	"Issue Type",
	"Status",
	"Resolution",
	"Status Category",
	"Work Started Date",
}

// ParseFormat parses a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatCSV, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (supported: %s, %s)", name, FormatCSV, FormatYAML)
	}
}

// DefaultFileName returns the name of the report file for a run started at now
func DefaultFileName(now time.Time, format Format) string {
	return fmt.Sprintf("jira-stats-export-%s.%s", now.Format("2006-01-02"), format)
}

// Row is a single report line with all dates normalized
type Row struct {
	ID             string `yaml:"id"`
	Key            string `yaml:"key"`
	CreatedDate    string `yaml:"createdDate"`
	ResolutionDate string `yaml:"resolutionDate"`
	IssueType      string `yaml:"issueType"`
	Status         string `yaml:"status"`
	Resolution     string `yaml:"resolution"`
	StatusCategory string `yaml:"statusCategory"`
	WorkStarted    string `yaml:"workStartedDate"`
}

// NewRow converts an issue record into a report row
func NewRow(record issue.Record) Row {
	return Row{
		ID:             record.ID,
		Key:            record.Key,
		CreatedDate:    dates.Normalize(record.CreatedAt),
		ResolutionDate: dates.Normalize(record.ResolvedAt),
		IssueType:      record.IssueType,
		Status:         record.Status,
		Resolution:     record.Resolution,
		StatusCategory: record.StatusCategory,
		WorkStarted:    dates.Normalize(record.WorkStartedAt),
	}
}

// Fields returns the row values in Columns order
func (r Row) Fields() []string {
	return []string{
		r.ID,
		r.Key,
		r.CreatedDate,
		r.ResolutionDate,
		r.IssueType,
		r.Status,
		r.Resolution,
		r.StatusCategory,
		r.WorkStarted,
	}
}

// Write serializes records to w in the given format, in the order provided
func Write(w io.Writer, format Format, records []issue.Record) error {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, NewRow(record))
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile writes the report to path, replacing any existing file
func WriteFile(path string, format Format, records []issue.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Write(f, format, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type yamlReport struct {
	Issues []Row `yaml:"issues"`
}

func writeYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlReport{Issues: rows}); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return enc.Close()
}
