package aggregation

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-buckets/internal/bucketset"
	"day-buckets/internal/domain"
	"day-buckets/internal/ingestion/stub"
	"day-buckets/internal/observability"
	"day-buckets/internal/storage"
	"day-buckets/internal/storage/memory"
)

type runnerFixture struct {
	runner  *Runner
	samples *memory.SampleStore
	series  *memory.SeriesStore
	metrics *observability.Metrics
	logs    *bytes.Buffer
}

func newRunnerFixture(t *testing.T, samples []domain.RawSample) *runnerFixture {
	t.Helper()
	f := &runnerFixture{
		samples: memory.NewSampleStore(),
		series:  memory.NewSeriesStore(),
		metrics: observability.NewMetrics("test", prometheus.NewRegistry()),
		logs:    &bytes.Buffer{},
	}
	clock := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	f.runner = NewRunner(RunnerOptions{
		Source:      stub.NewSampleSource(samples),
		SampleStore: f.samples,
		SeriesStore: f.series,
		Metrics:     f.metrics,
		Logger:      log.New(f.logs, "[runner] ", 0),
		Clock: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	return f
}

func assertSameSeries(t *testing.T, want, got *bucketset.Set) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		assert.True(t, want.At(i).Equal(got.At(i)), "point %d: %v != %v", i, want.At(i), got.At(i))
	}
}

func scenarioA() []domain.RawSample {
	return []domain.RawSample{
		domain.NewRawSample(day, decimal.NewFromInt(10)),
		domain.NewRawSample(day, decimal.NewFromInt(20)),
		domain.NewRawSample(day.Add(5*time.Minute), decimal.NewFromInt(5)),
	}
}

func TestRunner_Run(t *testing.T) {
	f := newRunnerFixture(t, scenarioA())
	ctx := context.Background()

	outcome, err := f.runner.Run(ctx, day, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NotEmpty(t, outcome.RunID)

	res := outcome.Result
	assert.Equal(t, 3, res.SampleCount)
	assert.Equal(t, 1, res.DuplicatesDropped)
	require.Equal(t, domain.MinutesInDay, res.Minutes.Len())
	assertAmount(t, 110, res.Minutes.At(4).MaxAmount)
	assertAmount(t, 115, res.Minutes.At(5).MaxAmount)

	storedSamples, err := f.samples.GetByRunID(ctx, outcome.RunID)
	require.NoError(t, err)
	assert.Len(t, storedSamples, 3)

	minutes, err := f.series.GetSeries(ctx, outcome.RunID, domain.ResolutionMinute)
	require.NoError(t, err)
	assert.Len(t, minutes, domain.MinutesInDay)
	hours, err := f.series.GetSeries(ctx, outcome.RunID, domain.ResolutionHour)
	require.NoError(t, err)
	assert.Len(t, hours, domain.HoursInDay)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues(observability.StatusSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.SamplesIngested))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DuplicatesDropped))
	assert.Equal(t, 1440.0, testutil.ToFloat64(f.metrics.PointsStored.WithLabelValues("minute")))
	assert.Equal(t, 24.0, testutil.ToFloat64(f.metrics.PointsStored.WithLabelValues("hour")))
	assert.Contains(t, f.logs.String(), outcome.RunID)
}

func TestRunner_RerunIsAlreadyStored(t *testing.T) {
	f := newRunnerFixture(t, scenarioA())
	ctx := context.Background()

	first, err := f.runner.Run(ctx, day, decimal.NewFromInt(100))
	require.NoError(t, err)
	second, err := f.runner.Run(ctx, day, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, first.RunID, second.RunID)
	assertSameSeries(t, first.Result.Minutes, second.Result.Minutes)
	assertSameSeries(t, first.Result.Hours, second.Result.Hours)
	assert.Contains(t, f.logs.String(), "already stored")
	assert.Equal(t, 1440.0, testutil.ToFloat64(f.metrics.PointsStored.WithLabelValues("minute")))
}

func TestRunner_InvalidSampleFailsRun(t *testing.T) {
	samples := append(scenarioA(), domain.RawSample{Time: day})
	f := newRunnerFixture(t, samples)

	outcome, err := f.runner.Run(context.Background(), day, decimal.NewFromInt(100))
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, domain.ErrMissingAmount)
	assert.Contains(t, err.Error(), "sample 3")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues(observability.StatusError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.SamplesIngested))
}

func TestRunner_SourceError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRunner(RunnerOptions{
		Source:  stub.NewFailingSource(boom),
		Metrics: observability.NewMetrics("test", prometheus.NewRegistry()),
		Logger:  log.New(&bytes.Buffer{}, "", 0),
	})

	_, err := r.Run(context.Background(), day, decimal.Zero)
	assert.ErrorIs(t, err, boom)
}

func TestRunner_NoSource(t *testing.T) {
	r := NewRunner(RunnerOptions{
		Metrics: observability.NewMetrics("test", prometheus.NewRegistry()),
		Logger:  log.New(&bytes.Buffer{}, "", 0),
	})

	_, err := r.Run(context.Background(), day, decimal.Zero)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestRunner_WithoutStores(t *testing.T) {
	r := NewRunner(RunnerOptions{
		Source:  stub.NewSampleSource(scenarioA()),
		Metrics: observability.NewMetrics("test", prometheus.NewRegistry()),
		Logger:  log.New(&bytes.Buffer{}, "", 0),
	})

	outcome, err := r.Run(context.Background(), day, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, domain.HoursInDay, outcome.Result.Hours.Len())
}

func TestRunner_Replay(t *testing.T) {
	f := newRunnerFixture(t, scenarioA())
	ctx := context.Background()

	outcome, err := f.runner.Run(ctx, day, decimal.NewFromInt(100))
	require.NoError(t, err)

	replay, err := f.runner.Replay(ctx, outcome.RunID)
	require.NoError(t, err)
	assert.True(t, replay.Match, "divergences: %v", replay.Divergences)
	assert.Equal(t, day, replay.Result.Day)
	assert.Equal(t, "100", replay.Result.Baseline.String())
	assertSameSeries(t, outcome.Result.Minutes, replay.Result.Minutes)
	assertSameSeries(t, outcome.Result.Hours, replay.Result.Hours)
}

func TestRunner_ReplayEmptyRun(t *testing.T) {
	f := newRunnerFixture(t, nil)
	ctx := context.Background()

	outcome, err := f.runner.Run(ctx, day, decimal.NewFromInt(7))
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Result.SampleCount)

	replay, err := f.runner.Replay(ctx, outcome.RunID)
	require.NoError(t, err)
	assert.True(t, replay.Match, "divergences: %v", replay.Divergences)
	assertAmount(t, 7, replay.Result.Minutes.At(domain.MinutesInDay-1).MaxAmount)
}

func TestRunner_ReplayDetectsDivergence(t *testing.T) {
	f := newRunnerFixture(t, scenarioA())
	ctx := context.Background()

	buckets, err := domain.BucketsFromSamples(scenarioA())
	require.NoError(t, err)

	// samples recorded with baseline 100, series computed from baseline 50
	run := storage.Run{ID: "tampered", Day: day, Baseline: decimal.NewFromInt(100)}
	require.NoError(t, f.samples.InsertBulk(ctx, run, buckets))
	stale := Compute(buckets, day, decimal.NewFromInt(50))
	for _, res := range []domain.Resolution{domain.ResolutionMinute, domain.ResolutionHour} {
		require.NoError(t, f.series.InsertSeries(ctx, run.ID, res, stale.Series(res).Items()))
	}

	replay, err := f.runner.Replay(ctx, run.ID)
	require.NoError(t, err)
	assert.False(t, replay.Match)
	require.NotEmpty(t, replay.Divergences)
	assert.Contains(t, replay.Divergences[0], "run id")
	assert.Contains(t, replay.Divergences[1], "minute[0]")
}

func TestRunner_ReplayUnknownRun(t *testing.T) {
	f := newRunnerFixture(t, scenarioA())

	_, err := f.runner.Replay(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunner_VerifyIdempotentMissingSeries(t *testing.T) {
	f := newRunnerFixture(t, scenarioA())
	result := Compute(nil, day, decimal.Zero)

	divergences, err := f.runner.VerifyIdempotent(context.Background(), "missing", result)
	require.NoError(t, err)
	assert.Len(t, divergences, 2)
}
