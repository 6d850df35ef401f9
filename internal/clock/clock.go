// Package clock abstracts time.Now so services can be tested against a
// fixed instant.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type system struct{}

// NewSystem returns the wall clock, normalised to UTC.
func NewSystem() Clock {
	return system{}
}

func (system) Now() time.Time {
	return time.Now().UTC()
}

type fixed struct {
	at time.Time
}

// NewFixed returns a clock pinned to the given instant.
func NewFixed(at time.Time) Clock {
	return fixed{at: at.UTC()}
}

func (f fixed) Now() time.Time {
	return f.at
}
