package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
)

// Run records the inputs a run was computed from, so it can be replayed
// without the caller supplying them again.
type Run struct {
	ID       string
	Day      time.Time // start of day, UTC
	Baseline decimal.Decimal
}

// SampleStore provides access to raw_samples storage.
// Samples are keyed by (run_id, seq) rather than timestamp: raw input may
// repeat a timestamp and its order decides which sample wins.
type SampleStore interface {
	// InsertBulk records run and stores its samples in order, atomically.
	// A run without samples is still recorded. Returns ErrDuplicateKey if the run exists.
	InsertBulk(ctx context.Context, run Run, samples []domain.Bucket) error

	// GetRun retrieves a recorded run. Returns ErrNotFound if unknown.
	GetRun(ctx context.Context, runID string) (Run, error)

	// GetByRunID retrieves the samples of a run in insertion order.
	// Returns ErrNotFound if the run is unknown; a run without samples yields an empty slice.
	GetByRunID(ctx context.Context, runID string) ([]domain.Bucket, error)
}

// SeriesStore provides access to aggregated series storage.
type SeriesStore interface {
	// InsertSeries stores one series of a run. Fails entire batch on duplicate
	// (run_id, resolution) or on a repeated timestamp inside the batch.
	InsertSeries(ctx context.Context, runID string, res domain.Resolution, points []domain.Bucket) error

	// GetSeries retrieves a series ordered by timestamp ASC. Returns ErrNotFound if none.
	GetSeries(ctx context.Context, runID string, res domain.Resolution) ([]domain.Bucket, error)
}
