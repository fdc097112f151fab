package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Construction errors. Both are fatal for a run: no partial result is produced.
var (
	// ErrMissingTimestamp is returned when a sample carries a zero timestamp.
	ErrMissingTimestamp = errors.New("missing timestamp")

	// ErrMissingAmount is returned when a sample carries a null amount.
	ErrMissingAmount = errors.New("missing amount")
)

// Bucket is a timestamped amount at minute resolution.
// Identity and ordering are by Time only; two buckets with equal Time are
// the same entity regardless of their amounts.
type Bucket struct {
	Time      time.Time       // naive minute timestamp (UTC label, no zone semantics)
	MaxAmount decimal.Decimal // primary amount
	MinAmount decimal.Decimal // minimum counterpart, equals MaxAmount outside the hour series
}

// NewBucket validates and builds a bucket whose MinAmount equals its amount.
func NewBucket(t time.Time, amount decimal.NullDecimal) (Bucket, error) {
	return NewExtremaBucket(t, amount, amount)
}

// NewExtremaBucket validates and builds a bucket with distinct max and min amounts.
func NewExtremaBucket(t time.Time, maxAmount, minAmount decimal.NullDecimal) (Bucket, error) {
	if t.IsZero() {
		return Bucket{}, ErrMissingTimestamp
	}
	if !maxAmount.Valid || !minAmount.Valid {
		return Bucket{}, ErrMissingAmount
	}
	return Bucket{
		Time:      Minute(t),
		MaxAmount: maxAmount.Decimal,
		MinAmount: minAmount.Decimal,
	}, nil
}

// ZeroBucket is the placeholder used to fill an unoccupied minute or hour.
func ZeroBucket(t time.Time) Bucket {
	return Bucket{Time: Minute(t), MaxAmount: decimal.Zero, MinAmount: decimal.Zero}
}

// Compare orders buckets by timestamp only.
func (b Bucket) Compare(o Bucket) int {
	return b.Time.Compare(o.Time)
}

// SameTime reports whether both buckets denote the same entity.
func (b Bucket) SameTime(o Bucket) bool {
	return b.Time.Equal(o.Time)
}

// Equal reports whether timestamp and both amounts match.
func (b Bucket) Equal(o Bucket) bool {
	return b.SameTime(o) && b.MaxAmount.Equal(o.MaxAmount) && b.MinAmount.Equal(o.MinAmount)
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s. maxAmount: %s, minAmount: %s",
		b.Time.Format(TimestampLayout), b.MaxAmount.String(), b.MinAmount.String())
}
