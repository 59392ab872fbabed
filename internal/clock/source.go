package clock

import "time"

// Source abstracts the passage of real time so tickers and event timestamps
// work with both the system clock and a VirtualSource in tests.
type Source interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
	// After returns a channel that receives the current time after duration d.
	After(d time.Duration) <-chan time.Time
}

// RealSource delegates to the standard time package.
type RealSource struct{}

func NewRealSource() *RealSource {
	return &RealSource{}
}

func (RealSource) Now() time.Time {
	return time.Now()
}

func (RealSource) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (RealSource) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
