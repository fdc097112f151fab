package aggregation

import (
	"github.com/shopspring/decimal"

	"day-buckets/internal/bucketset"
	"day-buckets/internal/domain"
)

// MinuteSeries computes the running balance for every minute of the dense mapping.
// Output[i] = baseline + sum(dense[0..i]), read from each entry's MaxAmount.
func MinuteSeries(dense *bucketset.Set, baseline decimal.Decimal) *bucketset.Set {
	result := bucketset.New(dense.Len())
	acc := baseline
	dense.Each(func(b domain.Bucket) {
		acc = acc.Add(b.MaxAmount)
		result.Add(domain.Bucket{Time: b.Time, MaxAmount: acc, MinAmount: acc})
	})
	return result
}
