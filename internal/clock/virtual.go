package clock

import (
	"sync"
	"time"
)

// VirtualSource is a Source whose time only moves when told to.
// Pending After channels fire during Advance or Set once their deadline
// has been reached, so tick loops can be driven without sleeping.
//
// Safe for concurrent use.
type VirtualSource struct {
	mu      sync.RWMutex
	current time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtualSource creates a VirtualSource starting at the given time.
func NewVirtualSource(start time.Time) *VirtualSource {
	return &VirtualSource{
		current: start,
	}
}

func (s *VirtualSource) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *VirtualSource) Since(t time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Sub(t)
}

// After returns a channel that fires once the source has been advanced to
// now+d. Non-positive durations fire immediately.
func (s *VirtualSource) After(d time.Duration) <-chan time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- s.current
		return ch
	}

	s.waiters = append(s.waiters, waiter{
		deadline: s.current.Add(d),
		ch:       ch,
	})
	return ch
}

// Pending returns the number of After channels that have not fired yet.
func (s *VirtualSource) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.waiters)
}

// Advance moves the source forward by d. Panics if d is negative.
func (s *VirtualSource) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.current.Add(d)
	s.fire()
}

// Set moves the source to t. Panics if t is before the current time.
func (s *VirtualSource) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Before(s.current) {
		panic("clock: cannot set time to the past")
	}

	s.current = t
	s.fire()
}

// fire delivers to every waiter whose deadline is at or before the current time.
// Must be called with s.mu held.
func (s *VirtualSource) fire() {
	remaining := s.waiters[:0]
	for _, w := range s.waiters {
		if !w.deadline.After(s.current) {
			w.ch <- s.current
		} else {
			remaining = append(remaining, w)
		}
	}
	s.waiters = remaining
}
