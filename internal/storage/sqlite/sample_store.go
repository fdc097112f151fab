package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

// SampleStore implements storage.SampleStore using SQLite.
type SampleStore struct {
	db *DB
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(db *DB) *SampleStore {
	return &SampleStore{db: db}
}

var _ storage.SampleStore = (*SampleStore)(nil)

// InsertBulk records run and stores its samples in one transaction.
func (s *SampleStore) InsertBulk(ctx context.Context, run storage.Run, samples []domain.Bucket) error {
	if err := storage.ValidateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, day, baseline, sample_count) VALUES (?, ?, ?, ?)`,
		run.ID, run.Day.Format(domain.DateLayout), run.Baseline.String(), len(samples),
	); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO raw_samples (run_id, seq, ts, amount) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, sample := range samples {
		if _, err := stmt.ExecContext(ctx, run.ID, i, formatTS(sample.Time), sample.MaxAmount.String()); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetRun retrieves a recorded run.
func (s *SampleStore) GetRun(ctx context.Context, runID string) (storage.Run, error) {
	var dayText, baselineText string
	err := s.db.QueryRowContext(ctx,
		`SELECT day, baseline FROM runs WHERE run_id = ?`, runID,
	).Scan(&dayText, &baselineText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Run{}, storage.ErrNotFound
		}
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}

	day, err := domain.ParseDay(dayText)
	if err != nil {
		return storage.Run{}, fmt.Errorf("parse run day: %w", err)
	}
	baseline, err := parseAmount(baselineText)
	if err != nil {
		return storage.Run{}, err
	}
	return storage.Run{ID: runID, Day: day, Baseline: baseline}, nil
}

// GetByRunID retrieves the samples of a run ordered by seq ASC.
func (s *SampleStore) GetByRunID(ctx context.Context, runID string) ([]domain.Bucket, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, amount, amount
		FROM raw_samples
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get samples by run id: %w", err)
	}
	defer rows.Close()

	samples, err := scanBuckets(rows)
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []domain.Bucket{}
	}
	return samples, nil
}
