// Package config loads run configuration from a YAML file, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendDatabase = "database" // Postgres samples + ClickHouse series
	BackendSQLite   = "sqlite"
)

// Output formats.
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Defaults.
const (
	DefaultBaseline   = "100"
	DefaultSampleSize = 1000
	DefaultSQLitePath = "./data/buckets.db"
)

// Config holds one run's settings.
type Config struct {
	// Run
	Day        string `yaml:"day"`      // 2006-01-02; empty means today
	Baseline   string `yaml:"baseline"` // decimal
	SampleSize int    `yaml:"sample_size"`
	Seed       int64  `yaml:"seed"` // 0 means seeded from the clock

	// Storage
	Backend       string `yaml:"backend"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
	SQLitePath    string `yaml:"sqlite_path"`

	// Output
	Format      string `yaml:"format"`
	OutputDir   string `yaml:"output_dir"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Baseline:   DefaultBaseline,
		SampleSize: DefaultSampleSize,
		Backend:    BackendMemory,
		SQLitePath: DefaultSQLitePath,
		Format:     FormatText,
	}
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"BUCKETS_DAY", &c.Day},
		{"BUCKETS_BASELINE", &c.Baseline},
		{"BUCKETS_BACKEND", &c.Backend},
		{"POSTGRES_DSN", &c.PostgresDSN},
		{"CLICKHOUSE_DSN", &c.ClickhouseDSN},
		{"SQLITE_PATH", &c.SQLitePath},
		{"BUCKETS_FORMAT", &c.Format},
		{"BUCKETS_OUTPUT_DIR", &c.OutputDir},
		{"METRICS_ADDR", &c.MetricsAddr},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup("BUCKETS_SAMPLE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BUCKETS_SAMPLE_SIZE %q: %w", v, err)
		}
		c.SampleSize = n
	}
	if v, ok := lookup("BUCKETS_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BUCKETS_SEED %q: %w", v, err)
		}
		c.Seed = n
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.ParsedBaseline(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Day != "" {
		if _, err := domain.ParseDay(c.Day); err != nil {
			errs = append(errs, fmt.Sprintf("invalid day %q: must be YYYY-MM-DD", c.Day))
		}
	}
	if c.SampleSize <= 0 {
		errs = append(errs, fmt.Sprintf("invalid sample size %d: must be positive", c.SampleSize))
	}

	switch c.Backend {
	case BackendMemory:
	case BackendDatabase:
		if c.PostgresDSN == "" {
			errs = append(errs, "backend database requires postgres_dsn")
		}
		if c.ClickhouseDSN == "" {
			errs = append(errs, "backend database requires clickhouse_dsn")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, "backend sqlite requires sqlite_path")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid backend %q: must be one of memory, database, sqlite", c.Backend))
	}

	switch c.Format {
	case FormatText, FormatCSV, FormatMarkdown:
	default:
		errs = append(errs, fmt.Sprintf("invalid format %q: must be one of text, csv, markdown", c.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParsedBaseline returns the baseline as a decimal.
func (c *Config) ParsedBaseline() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Baseline)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid baseline %q: %w", c.Baseline, err)
	}
	return d, nil
}

// ParsedDay returns the configured day, or the day of now when unset.
func (c *Config) ParsedDay(now time.Time) (time.Time, error) {
	if c.Day == "" {
		return domain.StartOfDay(now), nil
	}
	return domain.ParseDay(c.Day)
}
