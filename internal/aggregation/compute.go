package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/bucketset"
	"day-buckets/internal/domain"
)

// Result holds both aggregated series of one day.
type Result struct {
	Day               time.Time
	Baseline          decimal.Decimal
	Minutes           *bucketset.Set
	Hours             *bucketset.Set
	SampleCount       int
	DuplicatesDropped int // samples discarded by first-wins in the dense mapping
}

// Series returns the series for the given resolution.
func (r *Result) Series(res domain.Resolution) *bucketset.Set {
	if res == domain.ResolutionHour {
		return r.Hours
	}
	return r.Minutes
}

// Compute runs the minute and hour pipelines over the same buckets.
// The same baseline seeds the minute total and both hour carries.
func Compute(buckets []domain.Bucket, day time.Time, baseline decimal.Decimal) *Result {
	day = domain.StartOfDay(day)

	dense, dropped := dedup(buckets, domain.MinutesInDay)
	fill(dense, day, time.Minute, domain.MinutesInDay)

	return &Result{
		Day:               day,
		Baseline:          baseline,
		Minutes:           MinuteSeries(dense, baseline),
		Hours:             HourSeries(GroupByHour(buckets), day, baseline, baseline),
		SampleCount:       len(buckets),
		DuplicatesDropped: dropped,
	}
}
