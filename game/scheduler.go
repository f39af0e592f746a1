package game

import (
	"sort"
	"time"
)

// Scheduler runs delayed callbacks against frame time rather than wall time,
// so pausing the loop pauses every timer.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers []timer
}

type timer struct {
	due time.Duration
	seq uint64
	fn  func()
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once d has elapsed. Timers due at the same
// instant run in the order they were scheduled.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	s.timers = append(s.timers, timer{due: s.now + d, seq: s.seq, fn: fn})
}

// Advance moves the clock forward by dt and runs every timer that has come
// due, earliest first. It returns the number of callbacks run.
// Callbacks may schedule further timers; those also run if already due.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt > 0 {
		s.now += dt
	}

	ran := 0
	for {
		due := s.popDue()
		if due == nil {
			return ran
		}
		due.fn()
		ran++
	}
}

func (s *Scheduler) popDue() *timer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].due != s.timers[j].due {
			return s.timers[i].due < s.timers[j].due
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	if s.timers[0].due > s.now {
		return nil
	}
	t := s.timers[0]
	s.timers = s.timers[1:]
	return &t
}

// Now returns the scheduler's elapsed frame time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers not yet run.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Clear drops every pending timer.
func (s *Scheduler) Clear() {
	s.timers = nil
}
