package repositories

import "time"

// Clock supplies the current time. Services take a Clock instead of
// calling time.Now directly so tests can control publication
// timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
