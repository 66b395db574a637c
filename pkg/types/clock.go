package types

import "time"

// Clock abstracts time for components that schedule or expire work, so tests
// can drive deadlines deterministically.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func RealClock() Clock {
	return realClock{}
}

// FrozenClock is a Clock pinned to a settable instant.
type FrozenClock struct {
	Instant time.Time
}

func (c *FrozenClock) Now() time.Time { return c.Instant }

func (c *FrozenClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Instant
	return ch
}

func (c *FrozenClock) Advance(d time.Duration) {
	c.Instant = c.Instant.Add(d)
}
