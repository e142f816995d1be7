package clock

import "time"

// Clock abstracts time so scheduling and streak rules stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// Fixed always reports the same instant.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
