package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RawSample is an unvalidated (timestamp, amount) pair as emitted by a source.
// A zero Time or an invalid Amount means the field is absent.
type RawSample struct {
	Time   time.Time
	Amount decimal.NullDecimal
}

// NewRawSample builds a sample with both fields present.
func NewRawSample(t time.Time, amount decimal.Decimal) RawSample {
	return RawSample{Time: t, Amount: decimal.NewNullDecimal(amount)}
}

// Bucket validates the sample.
func (s RawSample) Bucket() (Bucket, error) {
	return NewBucket(s.Time, s.Amount)
}

// BucketsFromSamples validates every sample in order.
// It stops at the first invalid sample; there is no partial result.
func BucketsFromSamples(samples []RawSample) ([]Bucket, error) {
	buckets := make([]Bucket, 0, len(samples))
	for i, s := range samples {
		b, err := s.Bucket()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}
