package ingestion

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
)

const (
	// DefaultSampleSize is the number of samples generated per run.
	DefaultSampleSize = 1000

	// maxRandomAmount is the exclusive upper bound of generated amounts.
	maxRandomAmount = 100
)

// RandomSource generates uniformly distributed samples within a day.
// Identical seeds produce identical sequences.
type RandomSource struct {
	mu   sync.Mutex
	size int
	rng  *rand.Rand
}

// NewRandomSource creates a generator of size samples seeded with seed.
// A non-positive size falls back to DefaultSampleSize.
func NewRandomSource(size int, seed int64) *RandomSource {
	if size <= 0 {
		size = DefaultSampleSize
	}
	return &RandomSource{
		size: size,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Fetch generates samples with minute offsets in [0, 1440) and integer amounts in [0, 100).
func (s *RandomSource) Fetch(ctx context.Context, day time.Time) ([]domain.RawSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := domain.StartOfDay(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	samples := make([]domain.RawSample, 0, s.size)
	for i := 0; i < s.size; i++ {
		offset := time.Duration(s.rng.Intn(domain.MinutesInDay)) * time.Minute
		amount := decimal.NewFromInt(int64(s.rng.Intn(maxRandomAmount)))
		samples = append(samples, domain.NewRawSample(start.Add(offset), amount))
	}
	return samples, nil
}

var _ SampleSource = (*RandomSource)(nil)
