package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"day-buckets/internal/domain"
)

// Chart dimensions of the minute series plot.
const (
	chartHeight = 12
	chartWidth  = 72
)

// hourRow is one row of the hour table.
type hourRow struct {
	Hour      string
	MaxAmount string
	MinAmount string
}

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	res := r.Result

	// Header
	sb.WriteString(fmt.Sprintf("# Day Buckets Report: %s\n\n", res.Day.Format(domain.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Baseline | %s |\n", res.Baseline.String()))
	sb.WriteString(fmt.Sprintf("| Samples | %s |\n", humanize.Comma(int64(res.SampleCount))))
	sb.WriteString(fmt.Sprintf("| Duplicates Dropped | %s |\n", humanize.Comma(int64(res.DuplicatesDropped))))
	sb.WriteString(fmt.Sprintf("| Minute Points | %s |\n", humanize.Comma(int64(res.Minutes.Len()))))
	sb.WriteString(fmt.Sprintf("| Hour Points | %s |\n", humanize.Comma(int64(res.Hours.Len()))))
	if last, ok := res.Minutes.Last(); ok {
		sb.WriteString(fmt.Sprintf("| Closing Total | %s |\n", last.MaxAmount.String()))
	}
	sb.WriteString("\n")

	// Minute chart
	sb.WriteString("## Running Total\n\n")
	if res.Minutes.Len() > 0 {
		data := lo.Map(res.Minutes.Items(), func(b domain.Bucket, _ int) float64 {
			return b.MaxAmount.InexactFloat64()
		})
		sb.WriteString("```\n")
		sb.WriteString(asciigraph.Plot(data,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Caption("running total per minute"),
		))
		sb.WriteString("\n```\n\n")
	} else {
		sb.WriteString("No minute series available.\n\n")
	}

	// Hour table
	sb.WriteString("## Hourly Extrema\n\n")
	rows := lo.Map(res.Hours.Items(), func(b domain.Bucket, _ int) hourRow {
		return hourRow{
			Hour:      b.Time.Format(domain.TimestampLayout),
			MaxAmount: b.MaxAmount.String(),
			MinAmount: b.MinAmount.String(),
		}
	})
	if len(rows) > 0 {
		sb.WriteString("| Hour | Max | Min |\n")
		sb.WriteString("|------|-----|-----|\n")
		for _, row := range rows {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", row.Hour, row.MaxAmount, row.MinAmount))
		}
	} else {
		sb.WriteString("No hour series available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
