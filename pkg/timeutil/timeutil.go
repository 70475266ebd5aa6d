// Package timeutil has small helpers for scheduling event posts.
package timeutil

import "time"

// TimeUntil returns the duration from now until the next occurrence of
// the given UTC time of day.
func TimeUntil(now time.Time, hour, minute, second int) time.Duration {
	now = now.UTC()
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, time.UTC)
	delta := target.Sub(now)
	if delta < 0 {
		delta += 24 * time.Hour
	}
	return delta
}

// NextTimeOccurrence returns the next moment the given UTC time of day
// comes around.
func NextTimeOccurrence(now time.Time, hour, minute, second int) time.Time {
	return now.UTC().Add(TimeUntil(now, hour, minute, second))
}
