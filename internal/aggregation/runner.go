package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"day-buckets/internal/bucketset"
	"day-buckets/internal/domain"
	"day-buckets/internal/idhash"
	"day-buckets/internal/ingestion"
	"day-buckets/internal/observability"
	"day-buckets/internal/storage"
)

// ErrNoSource is returned by Run when the runner has no sample source.
var ErrNoSource = errors.New("no sample source configured")

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source      ingestion.SampleSource
	SampleStore storage.SampleStore // optional
	SeriesStore storage.SeriesStore // optional

	Metrics *observability.Metrics // nil: observability.DefaultMetrics
	Logger  *log.Logger            // nil: log.Default()
	Clock   func() time.Time       // nil: time.Now
}

// Runner wires a sample source through Compute into the stores.
// Flow: fetch → validate → store samples → compute → store series
type Runner struct {
	source      ingestion.SampleSource
	sampleStore storage.SampleStore
	seriesStore storage.SeriesStore
	metrics     *observability.Metrics
	logger      *log.Logger
	clock       func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		source:      opts.Source,
		sampleStore: opts.SampleStore,
		seriesStore: opts.SeriesStore,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		clock:       opts.Clock,
	}
	if r.metrics == nil {
		r.metrics = observability.DefaultMetrics
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	return r
}

// RunOutcome contains the result of one run.
type RunOutcome struct {
	RunID  string
	Result *Result
}

// Run fetches the samples of day, aggregates them and persists samples and series.
// Any invalid sample fails the whole run.
func (r *Runner) Run(ctx context.Context, day time.Time, baseline decimal.Decimal) (*RunOutcome, error) {
	started := r.clock()
	outcome, err := r.run(ctx, day, baseline)
	finished := r.clock()
	r.metrics.RecordRun(finished.Sub(started), finished, err)
	if err != nil {
		r.logger.Printf("run for %s failed: %v", domain.StartOfDay(day).Format(domain.DateLayout), err)
		return nil, err
	}

	res := outcome.Result
	r.logger.Printf("run %s: day=%s samples=%d duplicates=%d minutes=%d hours=%d (%v)",
		outcome.RunID, res.Day.Format(domain.DateLayout), res.SampleCount, res.DuplicatesDropped,
		res.Minutes.Len(), res.Hours.Len(), finished.Sub(started))
	return outcome, nil
}

func (r *Runner) run(ctx context.Context, day time.Time, baseline decimal.Decimal) (*RunOutcome, error) {
	if r.source == nil {
		return nil, ErrNoSource
	}

	samples, err := r.source.Fetch(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch samples: %w", err)
	}

	buckets, err := domain.BucketsFromSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("validate samples: %w", err)
	}

	runID := idhash.ComputeRunID(day, baseline, buckets)

	if r.sampleStore != nil {
		run := storage.Run{ID: runID, Day: domain.StartOfDay(day), Baseline: baseline}
		if err := r.sampleStore.InsertBulk(ctx, run, buckets); err != nil {
			if !errors.Is(err, storage.ErrDuplicateKey) {
				return nil, fmt.Errorf("store samples: %w", err)
			}
			r.logger.Printf("samples for run %s already stored", runID)
		}
	}

	result := Compute(buckets, day, baseline)
	r.metrics.RecordIngestion(result.SampleCount, result.DuplicatesDropped)

	if r.seriesStore != nil {
		if err := r.storeSeries(ctx, runID, result); err != nil {
			return nil, err
		}
	}

	return &RunOutcome{RunID: runID, Result: result}, nil
}

// storeSeries persists both resolutions concurrently.
func (r *Runner) storeSeries(ctx context.Context, runID string, result *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, res := range []domain.Resolution{domain.ResolutionMinute, domain.ResolutionHour} {
		res := res
		points := result.Series(res).Items()
		g.Go(func() error {
			err := r.seriesStore.InsertSeries(gctx, runID, res, points)
			switch {
			case err == nil:
				r.metrics.RecordPointsStored(res, len(points))
				return nil
			case errors.Is(err, storage.ErrDuplicateKey):
				r.logger.Printf("%s series for run %s already stored", res, runID)
				return nil
			default:
				return fmt.Errorf("store %s series: %w", res, err)
			}
		})
	}
	return g.Wait()
}

// ReplayOutcome contains the result of recomputing a stored run.
type ReplayOutcome struct {
	RunID       string
	Result      *Result
	Match       bool
	Divergences []string
}

// Replay recomputes runID from its stored samples, day and baseline and
// compares the output with the stored series. Nothing is written.
func (r *Runner) Replay(ctx context.Context, runID string) (*ReplayOutcome, error) {
	if r.sampleStore == nil {
		return nil, fmt.Errorf("replay %s: no sample store configured", runID)
	}

	run, err := r.sampleStore.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	day, baseline := run.Day, run.Baseline

	samples, err := ingestion.NewStoredSource(r.sampleStore, runID).Fetch(ctx, day)
	if err != nil {
		return nil, err
	}
	buckets, err := domain.BucketsFromSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("validate stored samples: %w", err)
	}

	result := Compute(buckets, day, baseline)
	outcome := &ReplayOutcome{RunID: runID, Result: result}

	if got := idhash.ComputeRunID(day, baseline, buckets); got != runID {
		outcome.Divergences = append(outcome.Divergences,
			fmt.Sprintf("run id: stored samples hash to %s for day %s and baseline %s",
				got, result.Day.Format(domain.DateLayout), baseline))
	}

	if r.seriesStore != nil {
		divergences, err := r.VerifyIdempotent(ctx, runID, result)
		if err != nil {
			return nil, err
		}
		outcome.Divergences = append(outcome.Divergences, divergences...)
	}

	outcome.Match = len(outcome.Divergences) == 0
	r.logger.Printf("replay %s: match=%v divergences=%d", runID, outcome.Match, len(outcome.Divergences))
	return outcome, nil
}

// VerifyIdempotent compares a computed result against the series stored for runID.
// Returns one message per divergence; an empty slice means both series match.
func (r *Runner) VerifyIdempotent(ctx context.Context, runID string, result *Result) ([]string, error) {
	var divergences []string
	for _, res := range []domain.Resolution{domain.ResolutionMinute, domain.ResolutionHour} {
		stored, err := r.seriesStore.GetSeries(ctx, runID, res)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				divergences = append(divergences, fmt.Sprintf("%s: series not stored", res))
				continue
			}
			return nil, fmt.Errorf("load %s series: %w", res, err)
		}
		divergences = append(divergences, compareSeries(res, result.Series(res), stored)...)
	}
	return divergences, nil
}

func compareSeries(res domain.Resolution, computed *bucketset.Set, stored []domain.Bucket) []string {
	var divergences []string
	if computed.Len() != len(stored) {
		divergences = append(divergences,
			fmt.Sprintf("%s: length %d, stored %d", res, computed.Len(), len(stored)))
	}
	n := min(computed.Len(), len(stored))
	for i := 0; i < n; i++ {
		if got := computed.At(i); !got.Equal(stored[i]) {
			divergences = append(divergences, fmt.Sprintf("%s[%d]: %s, stored %s", res, i, got, stored[i]))
		}
	}
	return divergences
}
