package ingestion

import (
	"context"
	"fmt"
	"time"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

// StoredSource replays the raw samples persisted by a previous run.
type StoredSource struct {
	store storage.SampleStore
	runID string
}

// NewStoredSource creates a source reading the samples of runID.
func NewStoredSource(store storage.SampleStore, runID string) *StoredSource {
	return &StoredSource{store: store, runID: runID}
}

// Fetch returns the stored samples in insertion order.
// The day argument is ignored: a run's samples belong to the day it was computed for.
func (s *StoredSource) Fetch(ctx context.Context, _ time.Time) ([]domain.RawSample, error) {
	buckets, err := s.store.GetByRunID(ctx, s.runID)
	if err != nil {
		return nil, fmt.Errorf("load samples for run %s: %w", s.runID, err)
	}

	samples := make([]domain.RawSample, len(buckets))
	for i, b := range buckets {
		samples[i] = domain.NewRawSample(b.Time, b.MaxAmount)
	}
	return samples, nil
}

var _ SampleSource = (*StoredSource)(nil)
