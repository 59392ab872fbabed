// Package racetime parses and renders race split times such as "25:37" or
// "1:25:37". A Time's canonical value is its length in minutes, fractional.
package racetime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned when a string does not split into two or
	// three integer fields within range.
	ErrInvalidFormat = errors.New("invalid time format")
	// ErrInvalidArgument is returned when a numeric duration cannot be rendered.
	ErrInvalidArgument = errors.New("invalid argument")
)

// MaxMinutes is the largest duration FromMinutes accepts. Beyond it a
// float64 no longer resolves whole seconds.
const MaxMinutes = 1e12

// Time is an immutable race time. The zero value is 0:00.
type Time struct {
	value   float64
	text    string
	hours   int
	minutes int
	seconds int
}

// Parse reads MM:SS or HH:MM:SS. Minutes and seconds must be in [0,59] and
// hours non-negative. The returned accessors report the rendered form, which
// may differ from the raw fields after rounding.
func Parse(s string) (Time, error) {
	tokens := strings.Split(s, ":")

	var value float64
	switch len(tokens) {
	case 2:
		fields, err := atoiAll(s, tokens)
		if err != nil {
			return Time{}, err
		}
		m, sec := fields[0], fields[1]
		if !inMinuteRange(m) || !inMinuteRange(sec) {
			return Time{}, fmt.Errorf("%w: %q is not a valid time", ErrInvalidFormat, s)
		}
		value = float64(m) + float64(sec)/60.0
	case 3:
		fields, err := atoiAll(s, tokens)
		if err != nil {
			return Time{}, err
		}
		h, m, sec := fields[0], fields[1], fields[2]
		if h < 0 || !inMinuteRange(m) || !inMinuteRange(sec) {
			return Time{}, fmt.Errorf("%w: %q is not a valid time", ErrInvalidFormat, s)
		}
		value = 60*float64(h) + float64(m) + float64(sec)/60.0
	default:
		return Time{}, fmt.Errorf("%w: %q is not a valid time", ErrInvalidFormat, s)
	}

	return FromMinutes(value)
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level literals.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMinutes renders a duration given in minutes, e.g. 4.5 is "4:30" and
// 90 is "1:30:00".
func FromMinutes(minutes float64) (Time, error) {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return Time{}, fmt.Errorf("%w: duration %v must be a finite, non-negative number of minutes", ErrInvalidArgument, minutes)
	}
	if minutes > MaxMinutes {
		return Time{}, fmt.Errorf("%w: duration %v exceeds %v minutes", ErrInvalidArgument, minutes, float64(MaxMinutes))
	}

	t := Time{value: minutes}
	if minutes < 60 {
		text, err := t.renderMinutes(minutes, false)
		if err != nil {
			return Time{}, err
		}
		t.text = text
		return t, nil
	}

	t.hours = int(minutes / 60)
	rest, err := t.renderMinutes(minutes-float64(60*t.hours), true)
	if err != nil {
		return Time{}, err
	}
	t.text = strconv.Itoa(t.hours) + ":" + rest
	return t, nil
}

// renderMinutes formats a sub-hour remainder as m:ss, or mm:ss when padded.
// A rounded 60 seconds carries into minutes but never further into hours,
// so 59.9999 renders as "60:00".
func (t *Time) renderMinutes(v float64, padded bool) (string, error) {
	if v > 60 {
		return "", fmt.Errorf("%w: %v exceeds 60 minutes", ErrInvalidArgument, v)
	}

	m := int(v)
	sec := int(math.Round(60 * (v - float64(m))))
	if sec == 60 {
		m++
		sec = 0
	}
	t.minutes = m
	t.seconds = sec

	if padded {
		return fmt.Sprintf("%02d:%02d", m, sec), nil
	}
	return fmt.Sprintf("%d:%02d", m, sec), nil
}

// Hours returns the rendered hour field, or 0 for times under an hour.
func (t Time) Hours() int { return t.hours }

// Minutes returns the rendered minute field.
func (t Time) Minutes() int { return t.minutes }

// Seconds returns the rendered second field.
func (t Time) Seconds() int { return t.seconds }

// Value returns the duration in minutes.
func (t Time) Value() float64 { return t.value }

func (t Time) String() string {
	if t.text == "" {
		return "0:00"
	}
	return t.text
}

func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func atoiAll(s string, tokens []string) ([]int, error) {
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid time", ErrInvalidFormat, s)
		}
		out[i] = n
	}
	return out, nil
}

func inMinuteRange(n int) bool {
	return n >= 0 && n <= 59
}
