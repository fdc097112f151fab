package aggregation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"day-buckets/internal/bucketset"
	"day-buckets/internal/domain"
)

// HourGroup holds the raw samples falling into one hour.
type HourGroup struct {
	Hour    time.Time      // minute component zeroed
	Samples *bucketset.Set // timestamp ordered, first-wins
}

// GroupByHour partitions buckets by hour key, ascending by hour.
// Only hours with at least one sample are present.
func GroupByHour(buckets []domain.Bucket) []HourGroup {
	groups := make(map[time.Time]*bucketset.Set)
	for _, b := range buckets {
		hour := domain.HourOf(b.Time)
		set, ok := groups[hour]
		if !ok {
			set = bucketset.New(0)
			groups[hour] = set
		}
		set.Add(b)
	}

	result := make([]HourGroup, 0, len(groups))
	for hour, set := range groups {
		result = append(result, HourGroup{Hour: hour, Samples: set})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Hour.Before(result[j].Hour)
	})
	return result
}

// HourSeries computes cumulative per-hour extrema for day.
//
// Pass 1 reduces each group to its intra-hour (min, max). Hours of day without
// a group are filled with (0, 0). Pass 2 folds the ascending hours with two
// independent carries seeded by minBaseline and maxBaseline, turning local
// extrema into extrema relative to the start of the day.
func HourSeries(groups []HourGroup, day time.Time, minBaseline, maxBaseline decimal.Decimal) *bucketset.Set {
	local := bucketset.New(domain.HoursInDay)
	for _, g := range groups {
		lo, hi := intraHourExtrema(g.Samples)
		local.Add(domain.Bucket{Time: g.Hour, MaxAmount: hi, MinAmount: lo})
	}
	fill(local, domain.StartOfDay(day), time.Hour, domain.HoursInDay)

	return bucketset.FromSlice(carryAcross(local.Items(), minBaseline, maxBaseline))
}

// intraHourExtrema returns the min and max reached by the running sum of the
// group's amounts. Both reductions read MaxAmount of each sample.
//
// One sample yields its own amount. Two samples are compared directly without
// summing. Three or more run a sum seeded with the first amount.
func intraHourExtrema(samples *bucketset.Set) (lo, hi decimal.Decimal) {
	switch samples.Len() {
	case 0:
		return decimal.Zero, decimal.Zero
	case 1:
		a := samples.At(0).MaxAmount
		return a, a
	case 2:
		a, b := samples.At(0).MaxAmount, samples.At(1).MaxAmount
		return decimal.Min(a, b), decimal.Max(a, b)
	}

	sum := samples.At(0).MaxAmount
	lo, hi = sum, sum
	for i := 1; i < samples.Len(); i++ {
		sum = sum.Add(samples.At(i).MaxAmount)
		lo = decimal.Min(sum, lo)
		hi = decimal.Max(sum, hi)
	}
	return lo, hi
}

// carryState is the fold state of the cross-hour pass.
type carryState struct {
	minCarry decimal.Decimal
	maxCarry decimal.Decimal
}

// carryAcross adds each hour's local extrema onto running carries and returns
// new buckets holding the carried values. hours must be ascending; it is not
// modified.
func carryAcross(hours []domain.Bucket, minBaseline, maxBaseline decimal.Decimal) []domain.Bucket {
	state := carryState{minCarry: minBaseline, maxCarry: maxBaseline}
	result := make([]domain.Bucket, 0, len(hours))
	for _, h := range hours {
		state = carryState{
			minCarry: state.minCarry.Add(h.MinAmount),
			maxCarry: state.maxCarry.Add(h.MaxAmount),
		}
		result = append(result, domain.Bucket{Time: h.Time, MaxAmount: state.maxCarry, MinAmount: state.minCarry})
	}
	return result
}
