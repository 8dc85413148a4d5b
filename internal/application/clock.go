package application

import "time"

// Clock abstraction so time is easy to fix in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
