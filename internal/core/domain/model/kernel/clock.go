package kernel

import "time"

// Clock returns the current instant. Use cases receive a Clock instead of
// calling time.Now so that windows, history timestamps and natural keys can be
// exercised deterministically.
type Clock func() time.Time

// SystemClock returns a Clock reading the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}
