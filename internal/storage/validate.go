package storage

import (
	"time"

	"day-buckets/internal/domain"
)

// ValidateRun checks the preconditions shared by every SampleStore.
func ValidateRun(run Run) error {
	if run.ID == "" || run.Day.IsZero() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateSeries checks the preconditions shared by every SeriesStore:
// a run ID, a known resolution and unique timestamps.
func ValidateSeries(runID string, res domain.Resolution, points []domain.Bucket) error {
	if runID == "" || !res.IsValid() {
		return ErrInvalidInput
	}
	seen := make(map[time.Time]struct{}, len(points))
	for _, p := range points {
		if _, exists := seen[p.Time]; exists {
			return ErrDuplicateKey
		}
		seen[p.Time] = struct{}{}
	}
	return nil
}
