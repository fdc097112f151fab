// Package aggregation turns sparse day samples into dense per-minute and
// per-hour running-balance series.
package aggregation

import (
	"time"

	"day-buckets/internal/bucketset"
	"day-buckets/internal/domain"
)

// DedupAndFill builds the dense per-minute mapping for day.
//
// Buckets are inserted in input order keyed by timestamp; a later bucket with
// a timestamp already present is discarded. Every minute of day still absent
// afterwards gets a zero amount. Buckets outside day are kept under their own
// timestamp, so the mapping holds exactly MinutesInDay entries only when all
// input falls inside day.
func DedupAndFill(buckets []domain.Bucket, day time.Time) *bucketset.Set {
	dense, _ := dedup(buckets, domain.MinutesInDay)
	fill(dense, domain.StartOfDay(day), time.Minute, domain.MinutesInDay)
	return dense
}

// dedup inserts buckets first-wins and reports how many were dropped.
func dedup(buckets []domain.Bucket, capacity int) (*bucketset.Set, int) {
	set := bucketset.New(capacity)
	dropped := 0
	for _, b := range buckets {
		if !set.Add(b) {
			dropped++
		}
	}
	return set, dropped
}

// fill adds a zero bucket for each of n steps from start that is not present.
func fill(set *bucketset.Set, start time.Time, step time.Duration, n int) {
	for i := 0; i < n; i++ {
		set.Add(domain.ZeroBucket(start.Add(time.Duration(i) * step)))
	}
}
