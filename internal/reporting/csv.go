package reporting

import (
	"fmt"
	"strings"

	"day-buckets/internal/domain"
)

// RenderCSV renders a series as CSV string.
func RenderCSV(res domain.Resolution, series []domain.Bucket) string {
	var sb strings.Builder

	// Header
	sb.WriteString("resolution,timestamp,max_amount,min_amount\n")

	// Rows
	for _, b := range series {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s\n",
			res,
			b.Time.Format(domain.TimestampLayout),
			b.MaxAmount.String(),
			b.MinAmount.String(),
		))
	}

	return sb.String()
}
