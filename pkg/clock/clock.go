// Package clock exposes the wall clock value object and the time sources
// behind it.
package clock

import (
	"context"
	"time"

	internalclock "github.com/acs560/marquee/internal/clock"
)

// ErrInvalidArgument is returned for out-of-range clock fields.
var ErrInvalidArgument = internalclock.ErrInvalidArgument

// WallClock is a 24-hour time of day that wraps at midnight.
type WallClock = internalclock.WallClock

// Source abstracts the passage of time.
type Source = internalclock.Source

// RealSource delegates to the standard time package.
type RealSource = internalclock.RealSource

// VirtualSource is a controllable time source for tests and replays.
type VirtualSource = internalclock.VirtualSource

// NewWallClock creates a clock at hours:minutes:seconds.
func NewWallClock(hours, minutes, seconds int) (*WallClock, error) {
	return internalclock.NewWallClock(hours, minutes, seconds)
}

// NewRealSource creates a real time source.
func NewRealSource() *RealSource {
	return internalclock.NewRealSource()
}

// NewVirtualSource creates a virtual source starting at the given time.
func NewVirtualSource(start time.Time) *VirtualSource {
	return internalclock.NewVirtualSource(start)
}

// Tick advances c one second per second of src, n times.
func Tick(ctx context.Context, c *WallClock, src Source, n int, onTick func(*WallClock)) error {
	return internalclock.Tick(ctx, c, src, n, onTick)
}
