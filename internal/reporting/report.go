// Package reporting renders aggregated series as text, CSV and Markdown.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"day-buckets/internal/aggregation"
	"day-buckets/internal/domain"
)

// Output file names written by WriteFiles.
const (
	MinuteSeriesFile = "MINUTE_SERIES.csv"
	HourSeriesFile   = "HOUR_SERIES.csv"
	ReportFile       = "REPORT.md"
)

// Report represents one aggregation run prepared for rendering.
type Report struct {
	// Metadata
	RunID       string
	GeneratedAt time.Time

	Result *aggregation.Result
}

// NewReport creates a report for a run.
func NewReport(runID string, result *aggregation.Result, generatedAt time.Time) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Result:      result,
	}
}

// WriteFiles writes both series as CSV plus the Markdown report into dir.
func WriteFiles(dir string, r *Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{MinuteSeriesFile, RenderCSV(domain.ResolutionMinute, r.Result.Minutes.Items())},
		{HourSeriesFile, RenderCSV(domain.ResolutionHour, r.Result.Hours.Items())},
		{ReportFile, RenderMarkdown(r)},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
