package sqlite

import (
	"context"
	"fmt"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

// SeriesStore implements storage.SeriesStore using SQLite.
type SeriesStore struct {
	db *DB
}

// NewSeriesStore creates a new SeriesStore.
func NewSeriesStore(db *DB) *SeriesStore {
	return &SeriesStore{db: db}
}

var _ storage.SeriesStore = (*SeriesStore)(nil)

// InsertSeries stores one series atomically. Returns ErrDuplicateKey if the series exists.
func (s *SeriesStore) InsertSeries(ctx context.Context, runID string, res domain.Resolution, points []domain.Bucket) error {
	if err := storage.ValidateSeries(runID, res, points); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bucket_series WHERE run_id = ? AND resolution = ?`,
		runID, string(res),
	).Scan(&count); err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if count > 0 {
		return storage.ErrDuplicateKey
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bucket_series (run_id, resolution, ts, max_amount, min_amount)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, runID, string(res), formatTS(p.Time), p.MaxAmount.String(), p.MinAmount.String()); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert series point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetSeries retrieves a series ordered by timestamp ASC.
func (s *SeriesStore) GetSeries(ctx context.Context, runID string, res domain.Resolution) ([]domain.Bucket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, max_amount, min_amount
		FROM bucket_series
		WHERE run_id = ? AND resolution = ?
		ORDER BY ts ASC
	`, runID, string(res))
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	points, err := scanBuckets(rows)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}
	return points, nil
}
