// Package ingestion provides the raw sample sources fed into aggregation.
package ingestion

import (
	"context"
	"time"

	"day-buckets/internal/domain"
)

// SampleSource provides raw samples for one day.
type SampleSource interface {
	// Fetch returns the samples for day in arrival order.
	// Order matters: on a repeated timestamp the earlier sample wins.
	Fetch(ctx context.Context, day time.Time) ([]domain.RawSample, error)
}
