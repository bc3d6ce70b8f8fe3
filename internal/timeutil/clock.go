package timeutil

import "time"

// Clock supplies the current instant. Anything that derives "today" or
// "late" takes a Clock so tests can simulate arbitrary instants and a
// long-running process never freezes time at startup.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Intended for tests.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
