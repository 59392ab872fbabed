// Package journal exposes catalog change events, the recorder that
// persists them and the replayer that applies them to a catalog.
package journal

import (
	"io"

	internalclock "github.com/acs560/marquee/internal/clock"
	internaljournal "github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/movie"
)

type (
	// Event is one catalog change.
	Event = internaljournal.Event
	Kind  = internaljournal.Kind
	// Sink receives events as they happen.
	Sink = internaljournal.Sink
	// Tee fans events out to several sinks.
	Tee      = internaljournal.Tee
	Recorder = internaljournal.Recorder
	Filter   = internaljournal.Filter
	Replayer = internaljournal.Replayer
	Result   = internaljournal.Result
	Summary  = internaljournal.Summary
)

const (
	KindAdd    = internaljournal.KindAdd
	KindUpdate = internaljournal.KindUpdate
	KindDelete = internaljournal.KindDelete
)

// NewRecorder creates a recorder. A non-nil w receives every event as a
// JSON line.
func NewRecorder(w io.Writer) *Recorder {
	return internaljournal.NewRecorder(w)
}

// NewStreamRecorder creates a recorder that only streams events to w as
// JSON lines and counts them.
func NewStreamRecorder(w io.Writer) *Recorder {
	return internaljournal.NewStreamRecorder(w)
}

// NewReplayer creates a replayer writing to s.
func NewReplayer(s movie.Store, vc *internalclock.VirtualSource, speed float64, filter Filter) *Replayer {
	return internaljournal.NewReplayer(s, vc, speed, filter)
}

// LoadFile reads a JSON array or NDJSON journal.
func LoadFile(path string) ([]Event, error) {
	return internaljournal.LoadFile(path)
}
