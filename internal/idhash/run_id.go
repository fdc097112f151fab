// Package idhash computes deterministic identifiers.
package idhash

import (
	"crypto/sha256"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"day-buckets/internal/domain"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(day|baseline|ts=amount|ts=amount|...) over samples in input order.
// Returns the base58-encoded hash.
func ComputeRunID(day time.Time, baseline decimal.Decimal, samples []domain.Bucket) string {
	var sb strings.Builder
	sb.WriteString(domain.StartOfDay(day).Format(domain.DateLayout))
	sb.WriteByte('|')
	sb.WriteString(baseline.String())
	for _, s := range samples {
		sb.WriteByte('|')
		sb.WriteString(s.Time.Format(domain.TimestampLayout))
		sb.WriteByte('=')
		sb.WriteString(s.MaxAmount.String())
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return base58.Encode(hash[:])
}
