package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

// SampleStore implements storage.SampleStore using PostgreSQL.
type SampleStore struct {
	pool *Pool
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(pool *Pool) *SampleStore {
	return &SampleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SampleStore = (*SampleStore)(nil)

// InsertBulk records run and stores its samples atomically. Returns ErrDuplicateKey if the run exists.
// Amounts are sent as text and cast server-side so no precision is lost.
func (s *SampleStore) InsertBulk(ctx context.Context, run storage.Run, samples []domain.Bucket) error {
	if err := storage.ValidateRun(run); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO runs (run_id, day, baseline, sample_count)
		VALUES ($1, $2::text::date, $3::text::numeric, $4)
	`, run.ID, run.Day.Format(domain.DateLayout), run.Baseline.String(), len(samples))
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}

	if len(samples) > 0 {
		query := `
			INSERT INTO raw_samples (run_id, seq, ts, amount)
			VALUES ($1, $2, $3, $4::text::numeric)
		`

		batch := &pgx.Batch{}
		for i, sample := range samples {
			batch.Queue(query, run.ID, i, sample.Time, sample.MaxAmount.String())
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert samples in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetRun retrieves a recorded run.
func (s *SampleStore) GetRun(ctx context.Context, runID string) (storage.Run, error) {
	var dayText, baselineText string
	err := s.pool.QueryRow(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), baseline::text
		FROM runs
		WHERE run_id = $1
	`, runID).Scan(&dayText, &baselineText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Run{}, storage.ErrNotFound
		}
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}

	day, err := domain.ParseDay(dayText)
	if err != nil {
		return storage.Run{}, fmt.Errorf("parse run day: %w", err)
	}
	baseline, err := decimal.NewFromString(baselineText)
	if err != nil {
		return storage.Run{}, fmt.Errorf("parse run baseline %q: %w", baselineText, err)
	}

	return storage.Run{ID: runID, Day: day, Baseline: baseline}, nil
}

// GetByRunID retrieves the samples of a run ordered by seq ASC.
func (s *SampleStore) GetByRunID(ctx context.Context, runID string) ([]domain.Bucket, error) {
	query := `
		SELECT ts, amount::text
		FROM raw_samples
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get samples by run id: %w", err)
	}
	defer rows.Close()

	samples := []domain.Bucket{}
	for rows.Next() {
		var ts time.Time
		var amountText string
		if err := rows.Scan(&ts, &amountText); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}

		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("parse sample amount %q: %w", amountText, err)
		}

		sample, err := domain.NewBucket(ts, decimal.NewNullDecimal(amount))
		if err != nil {
			return nil, fmt.Errorf("rebuild sample: %w", err)
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	if len(samples) == 0 {
		// distinguish an empty run from an unknown one
		if _, err := s.GetRun(ctx, runID); err != nil {
			return nil, err
		}
	}

	return samples, nil
}
