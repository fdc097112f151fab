package main

import (
	"context"
	"fmt"

	"day-buckets/internal/config"
	"day-buckets/internal/storage"
	chstore "day-buckets/internal/storage/clickhouse"
	"day-buckets/internal/storage/memory"
	"day-buckets/internal/storage/migrations"
	pgstore "day-buckets/internal/storage/postgres"
	"day-buckets/internal/storage/sqlite"
)

// stores holds the backend selected by config plus its cleanup.
type stores struct {
	samples storage.SampleStore
	series  storage.SeriesStore
	closers []func()
}

// Close releases backend connections in reverse order.
func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Backend {
	case config.BackendDatabase:
		return createDatabaseStores(ctx, cfg.PostgresDSN, cfg.ClickhouseDSN)
	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &stores{
			samples: sqlite.NewSampleStore(db),
			series:  sqlite.NewSeriesStore(db),
			closers: []func(){func() { _ = db.Close() }},
		}, nil
	default:
		return &stores{
			samples: memory.NewSampleStore(),
			series:  memory.NewSeriesStore(),
		}, nil
	}
}

// createDatabaseStores connects to PostgreSQL and ClickHouse, applies migrations and creates stores.
// Raw samples go to Postgres, aggregated series to ClickHouse.
func createDatabaseStores(ctx context.Context, postgresDSN, clickhouseDSN string) (*stores, error) {
	s := &stores{}

	// Connect to PostgreSQL
	pgPool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	s.closers = append(s.closers, pgPool.Close)

	if err := migrations.RunPostgresMigrations(ctx, pgPool); err != nil {
		s.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// Connect to ClickHouse
	if err := chstore.EnsureDatabase(ctx, clickhouseDSN); err != nil {
		s.Close()
		return nil, err
	}
	chConn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	s.closers = append(s.closers, func() { _ = chConn.Close() })

	if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
		s.Close()
		return nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	s.samples = pgstore.NewSampleStore(pgPool)
	s.series = chstore.NewSeriesStore(chConn)
	return s, nil
}
