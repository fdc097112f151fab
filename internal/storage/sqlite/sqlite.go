// Package sqlite implements single-file sample and series stores.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
	"day-buckets/internal/storage/migrations"

	_ "modernc.org/sqlite"
)

// tsLayout stores naive minute timestamps as sortable text.
const tsLayout = "2006-01-02 15:04:05"

// DB wraps the SQL database connection.
type DB struct {
	*sql.DB
}

// Open creates the database file if needed, applies migrations and returns a connection.
func Open(ctx context.Context, path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := migrations.RunSQLiteMigrations(path); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One writer at a time; avoids SQLITE_BUSY between the two series inserts.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s string) (time.Time, error) {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// isDuplicateKeyError checks for a primary key or unique constraint violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

// scanBuckets scans (ts, max_amount, min_amount) rows.
func scanBuckets(rows *sql.Rows) ([]domain.Bucket, error) {
	var points []domain.Bucket
	for rows.Next() {
		var ts, maxText, minText string
		if err := rows.Scan(&ts, &maxText, &minText); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		t, err := parseTS(ts)
		if err != nil {
			return nil, err
		}
		maxAmount, err := parseAmount(maxText)
		if err != nil {
			return nil, err
		}
		minAmount, err := parseAmount(minText)
		if err != nil {
			return nil, err
		}

		points = append(points, domain.Bucket{Time: t, MaxAmount: maxAmount, MinAmount: minAmount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return points, nil
}
