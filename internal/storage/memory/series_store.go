package memory

import (
	"context"
	"sync"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

// seriesKey identifies one stored series.
type seriesKey struct {
	runID string
	res   domain.Resolution
}

// SeriesStore is an in-memory implementation of storage.SeriesStore.
type SeriesStore struct {
	mu   sync.RWMutex
	data map[seriesKey][]domain.Bucket // ordered by timestamp ASC
}

// NewSeriesStore creates a new in-memory series store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{
		data: make(map[seriesKey][]domain.Bucket),
	}
}

// InsertSeries stores one series. Fails entire batch on duplicate.
func (s *SeriesStore) InsertSeries(_ context.Context, runID string, res domain.Resolution, points []domain.Bucket) error {
	if err := storage.ValidateSeries(runID, res, points); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := seriesKey{runID: runID, res: res}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	sorted := make([]domain.Bucket, len(points))
	copy(sorted, points)
	sortByTime(sorted)
	s.data[key] = sorted

	return nil
}

// GetSeries retrieves a series ordered by timestamp ASC.
func (s *SeriesStore) GetSeries(_ context.Context, runID string, res domain.Resolution) ([]domain.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, exists := s.data[seriesKey{runID: runID, res: res}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.Bucket, len(points))
	copy(result, points)
	return result, nil
}

var _ storage.SeriesStore = (*SeriesStore)(nil)
