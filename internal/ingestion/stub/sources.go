// Package stub provides in-memory ingestion sources for tests.
package stub

import (
	"context"
	"time"

	"day-buckets/internal/domain"
)

// SampleSource returns fixed in-memory samples for testing.
// Samples may share timestamps to exercise first-wins deduplication.
// Implements ingestion.SampleSource interface.
type SampleSource struct {
	samples []domain.RawSample
	err     error
}

// NewSampleSource creates a new stub sample source with the given samples.
func NewSampleSource(samples []domain.RawSample) *SampleSource {
	return &SampleSource{samples: samples}
}

// NewFailingSource creates a stub source whose Fetch always returns err.
func NewFailingSource(err error) *SampleSource {
	return &SampleSource{err: err}
}

// Fetch returns all samples regardless of day.
// Returns copies to prevent mutation.
func (s *SampleSource) Fetch(_ context.Context, _ time.Time) ([]domain.RawSample, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]domain.RawSample, len(s.samples))
	copy(result, s.samples)
	return result, nil
}
