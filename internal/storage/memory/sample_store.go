package memory

import (
	"context"
	"sort"
	"sync"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

type storedRun struct {
	run     storage.Run
	samples []domain.Bucket // insertion order
}

// SampleStore is an in-memory implementation of storage.SampleStore.
type SampleStore struct {
	mu   sync.RWMutex
	data map[string]storedRun // keyed by run_id
}

// NewSampleStore creates a new in-memory sample store.
func NewSampleStore() *SampleStore {
	return &SampleStore{
		data: make(map[string]storedRun),
	}
}

// InsertBulk records run and its samples. Returns ErrDuplicateKey if the run exists.
func (s *SampleStore) InsertBulk(_ context.Context, run storage.Run, samples []domain.Bucket) error {
	if err := storage.ValidateRun(run); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.ID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := make([]domain.Bucket, len(samples))
	copy(stored, samples)
	s.data[run.ID] = storedRun{run: run, samples: stored}

	return nil
}

// GetRun retrieves a recorded run.
func (s *SampleStore) GetRun(_ context.Context, runID string) (storage.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[runID]
	if !exists {
		return storage.Run{}, storage.ErrNotFound
	}
	return stored.run, nil
}

// GetByRunID retrieves the samples of a run in insertion order.
func (s *SampleStore) GetByRunID(_ context.Context, runID string) ([]domain.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.Bucket, len(stored.samples))
	copy(result, stored.samples)
	return result, nil
}

// sortByTime orders buckets by timestamp ASC.
func sortByTime(buckets []domain.Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Time.Before(buckets[j].Time)
	})
}

var _ storage.SampleStore = (*SampleStore)(nil)
