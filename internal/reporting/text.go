package reporting

import (
	"strings"

	"day-buckets/internal/domain"
)

// RenderText renders one line per bucket: "<minute>. maxAmount: X, minAmount: Y".
func RenderText(series []domain.Bucket) string {
	var sb strings.Builder
	for _, b := range series {
		sb.WriteString(b.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
