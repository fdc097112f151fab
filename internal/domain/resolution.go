package domain

import (
	"fmt"
	"time"
)

// Resolution identifies the granularity of an aggregated series.
type Resolution string

const (
	ResolutionMinute Resolution = "minute"
	ResolutionHour   Resolution = "hour"
)

// String returns the string representation of Resolution.
func (r Resolution) String() string {
	return string(r)
}

// IsValid checks if the resolution is a known value.
func (r Resolution) IsValid() bool {
	return r == ResolutionMinute || r == ResolutionHour
}

// Interval returns the bucket width.
func (r Resolution) Interval() time.Duration {
	switch r {
	case ResolutionHour:
		return time.Hour
	default:
		return time.Minute
	}
}

// ParseResolution converts a stored label back into a Resolution.
func ParseResolution(s string) (Resolution, error) {
	r := Resolution(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown resolution %q", s)
	}
	return r, nil
}
