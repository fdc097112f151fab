package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage"
)

// SeriesStore implements storage.SeriesStore using ClickHouse.
type SeriesStore struct {
	conn *Conn
}

// NewSeriesStore creates a new SeriesStore.
func NewSeriesStore(conn *Conn) *SeriesStore {
	return &SeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SeriesStore = (*SeriesStore)(nil)

// InsertSeries stores one series. Fails entire batch on duplicate (run_id, resolution).
// MergeTree does not enforce uniqueness, so existence is checked before insert.
func (s *SeriesStore) InsertSeries(ctx context.Context, runID string, res domain.Resolution, points []domain.Bucket) error {
	if err := storage.ValidateSeries(runID, res, points); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	exists, err := s.exists(ctx, runID, res)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO bucket_series (
			run_id, resolution, ts, max_amount, min_amount
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(runID, string(res), p.Time, p.MaxAmount.String(), p.MinAmount.String()); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetSeries retrieves a series ordered by timestamp ASC.
func (s *SeriesStore) GetSeries(ctx context.Context, runID string, res domain.Resolution) ([]domain.Bucket, error) {
	query := `
		SELECT ts, max_amount, min_amount
		FROM bucket_series
		WHERE run_id = ? AND resolution = ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, string(res))
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	points, err := scanSeries(rows)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}
	return points, nil
}

// exists checks if any point of the series is stored.
func (s *SeriesStore) exists(ctx context.Context, runID string, res domain.Resolution) (bool, error) {
	query := `
		SELECT count(*) FROM bucket_series
		WHERE run_id = ? AND resolution = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID, string(res)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanSeries scans multiple rows.
func scanSeries(rows chRows) ([]domain.Bucket, error) {
	var points []domain.Bucket

	for rows.Next() {
		var ts time.Time
		var maxText, minText string

		if err := rows.Scan(&ts, &maxText, &minText); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}

		maxAmount, err := decimal.NewFromString(maxText)
		if err != nil {
			return nil, fmt.Errorf("parse max amount %q: %w", maxText, err)
		}
		minAmount, err := decimal.NewFromString(minText)
		if err != nil {
			return nil, fmt.Errorf("parse min amount %q: %w", minText, err)
		}

		points = append(points, domain.Bucket{
			Time:      domain.Minute(ts.UTC()),
			MaxAmount: maxAmount,
			MinAmount: minAmount,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series rows: %w", err)
	}

	return points, nil
}
