package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBucket_NormalizesToMinute(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	ts := time.Date(2026, 10, 14, 7, 42, 31, 999, loc)

	b, err := NewBucket(ts, decimal.NewNullDecimal(decimal.NewFromInt(5)))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 14, 7, 42, 0, 0, time.UTC), b.Time)
	assert.True(t, b.MaxAmount.Equal(decimal.NewFromInt(5)))
	assert.True(t, b.MinAmount.Equal(b.MaxAmount), "min amount should mirror max amount")
}

func TestNewBucket_RejectsMissingFields(t *testing.T) {
	_, err := NewBucket(time.Time{}, decimal.NewNullDecimal(decimal.Zero))
	assert.True(t, errors.Is(err, ErrMissingTimestamp))

	_, err = NewBucket(time.Now(), decimal.NullDecimal{})
	assert.True(t, errors.Is(err, ErrMissingAmount))

	_, err = NewExtremaBucket(time.Now(), decimal.NewNullDecimal(decimal.Zero), decimal.NullDecimal{})
	assert.True(t, errors.Is(err, ErrMissingAmount))
}

func TestBucket_IdentityIsTimestampOnly(t *testing.T) {
	ts := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	a := Bucket{Time: ts, MaxAmount: decimal.NewFromInt(10), MinAmount: decimal.NewFromInt(10)}
	b := Bucket{Time: ts, MaxAmount: decimal.NewFromInt(20), MinAmount: decimal.NewFromInt(20)}
	c := Bucket{Time: ts.Add(time.Minute), MaxAmount: decimal.NewFromInt(10), MinAmount: decimal.NewFromInt(10)}

	assert.True(t, a.SameTime(b))
	assert.Equal(t, 0, a.Compare(b))
	assert.False(t, a.Equal(b))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
}

func TestBucket_String(t *testing.T) {
	b := Bucket{
		Time:      time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC),
		MaxAmount: decimal.NewFromInt(6),
		MinAmount: decimal.NewFromInt(4),
	}
	assert.Equal(t, "2026-10-14T03:00. maxAmount: 6, minAmount: 4", b.String())
}

func TestBucketsFromSamples_AbortsOnFirstInvalid(t *testing.T) {
	ts := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	samples := []RawSample{
		NewRawSample(ts, decimal.NewFromInt(1)),
		{Time: ts.Add(time.Minute)},
		{Amount: decimal.NewNullDecimal(decimal.NewFromInt(3))},
	}

	buckets, err := BucketsFromSamples(samples)
	require.Error(t, err)
	assert.Nil(t, buckets)
	assert.True(t, errors.Is(err, ErrMissingAmount))
	assert.Contains(t, err.Error(), "sample 1")
}

func TestBucketsFromSamples_KeepsOrderAndDuplicates(t *testing.T) {
	ts := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	samples := []RawSample{
		NewRawSample(ts, decimal.NewFromInt(10)),
		NewRawSample(ts, decimal.NewFromInt(20)),
	}

	buckets, err := BucketsFromSamples(samples)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "10", buckets[0].MaxAmount.String())
	assert.Equal(t, "20", buckets[1].MaxAmount.String())
}
