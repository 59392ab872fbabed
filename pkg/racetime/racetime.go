// Package racetime exposes the race time value object: durations written as
// m:ss or h:mm:ss and their value in minutes.
package racetime

import internalracetime "github.com/acs560/marquee/internal/racetime"

var (
	ErrInvalidFormat   = internalracetime.ErrInvalidFormat
	ErrInvalidArgument = internalracetime.ErrInvalidArgument
)

// MaxMinutes is the largest duration FromMinutes accepts.
const MaxMinutes = internalracetime.MaxMinutes

// Time is a rendered race time.
type Time = internalracetime.Time

// Parse reads MM:SS or HH:MM:SS.
func Parse(s string) (Time, error) {
	return internalracetime.Parse(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Time {
	return internalracetime.MustParse(s)
}

// FromMinutes renders a minute count.
func FromMinutes(minutes float64) (Time, error) {
	return internalracetime.FromMinutes(minutes)
}
