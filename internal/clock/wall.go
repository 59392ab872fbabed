package clock

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a wall clock is built from an
// out-of-range or negative field.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	hoursPerDay      = 24
	minutesPerHour   = 60
	secondsPerMinute = 60
	noonHour         = 12
)

// WallClock is a 24-hour time of day. Hours stay in [0,23] and minutes and
// seconds in [0,59]; advancing past a boundary wraps and carries into the
// next larger field.
//
// A WallClock is not safe for concurrent mutation.
type WallClock struct {
	hours   int
	minutes int
	seconds int
}

// NewWallClock validates and returns a clock set to hours:minutes:seconds.
func NewWallClock(hours, minutes, seconds int) (*WallClock, error) {
	if hours < 0 || minutes < 0 || seconds < 0 {
		return nil, fmt.Errorf("%w: negative values not permitted (%d:%d:%d)", ErrInvalidArgument, hours, minutes, seconds)
	}
	if hours >= hoursPerDay || minutes >= minutesPerHour || seconds >= secondsPerMinute {
		return nil, fmt.Errorf("%w: hours must be 0-23, minutes 0-59, seconds 0-59 (got %d:%d:%d)", ErrInvalidArgument, hours, minutes, seconds)
	}
	return &WallClock{hours: hours, minutes: minutes, seconds: seconds}, nil
}

func (c *WallClock) Hours() int   { return c.hours }
func (c *WallClock) Minutes() int { return c.minutes }
func (c *WallClock) Seconds() int { return c.seconds }

// AddHour advances one hour, wrapping 23 to 0.
func (c *WallClock) AddHour() {
	if c.hours == hoursPerDay-1 {
		c.hours = 0
		return
	}
	c.hours++
}

// AddMinute advances one minute. Wrapping 59 to 0 carries one hour.
func (c *WallClock) AddMinute() {
	if c.minutes == minutesPerHour-1 {
		c.minutes = 0
		c.AddHour()
		return
	}
	c.minutes++
}

// AddSecond advances one second. Wrapping 59 to 0 carries one minute, which
// may in turn carry into the hour.
func (c *WallClock) AddSecond() {
	if c.seconds == secondsPerMinute-1 {
		c.seconds = 0
		c.AddMinute()
		return
	}
	c.seconds++
}

// AddSeconds calls AddSecond n times. Negative n is a no-op.
func (c *WallClock) AddSeconds(n int) {
	for i := 0; i < n; i++ {
		c.AddSecond()
	}
}

// Format24 returns hh:mm:ss.
func (c *WallClock) Format24() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.hours, c.minutes, c.seconds)
}

// Format12 returns h:mm:ss followed by AM or PM. Midnight and noon display
// as 12.
func (c *WallClock) Format12() string {
	display := c.hours
	switch {
	case display == 0:
		display = noonHour
	case display > noonHour:
		display -= noonHour
	}
	return fmt.Sprintf("%d:%02d:%02d %s", display, c.minutes, c.seconds, c.suffix())
}

func (c *WallClock) suffix() string {
	if c.hours < noonHour {
		return "AM"
	}
	return "PM"
}

func (c *WallClock) String() string {
	return c.Format24()
}
