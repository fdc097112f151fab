package domain

import "time"

// Day structure constants.
const (
	MinutesInDay = 24 * 60
	HoursInDay   = 24
)

// TimestampLayout renders naive minute timestamps.
const TimestampLayout = "2006-01-02T15:04"

// DateLayout is the layout accepted for day boundaries.
const DateLayout = "2006-01-02"

// Minute drops seconds, sub-seconds and the zone, keeping the wall clock.
func Minute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// HourOf returns the hour key of t: minute component zeroed.
func HourOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD day boundary.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t), nil
}
