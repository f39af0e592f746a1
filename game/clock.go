package game

import "time"

// SimClock is a manually advanced time source for headless runs.
type SimClock struct {
	t time.Time
}

// NewSimClock creates a clock reading start.
func NewSimClock(start time.Time) *SimClock {
	return &SimClock{t: start}
}

// Now returns the current simulated time.
func (c *SimClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
