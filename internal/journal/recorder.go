package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Recorder keeps every event it is given and optionally streams each one
// to a writer as newline-delimited JSON. A stream-only Recorder keeps just
// a count.
// Safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	events     []Event
	count      int
	writer     io.Writer
	streamOnly bool
}

var _ Sink = (*Recorder)(nil)

// NewRecorder creates a Recorder. w may be nil.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{writer: w}
}

// NewStreamRecorder creates a Recorder that writes each event to w without
// retaining it. Events and ExportJSON report nothing; Len still counts.
func NewStreamRecorder(w io.Writer) *Recorder {
	return &Recorder{writer: w, streamOnly: true}
}

func (r *Recorder) Record(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	if !r.streamOnly {
		r.events = append(r.events, e)
	}
	if r.writer != nil {
		if err := json.NewEncoder(r.writer).Encode(e); err != nil {
			return fmt.Errorf("streaming event %s: %w", e.ID, err)
		}
	}
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of events recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// ExportJSON writes the events as an indented JSON array.
func (r *Recorder) ExportJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.events
	if events == nil {
		events = []Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

// ExportFile writes the events to path as a JSON array.
func (r *Recorder) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.ExportJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads events from a JSON array.
func LoadJSON(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding journal: %w", err)
	}
	return events, nil
}

// LoadNDJSON reads events written one per line by a streaming Recorder.
func LoadNDJSON(r io.Reader) ([]Event, error) {
	var events []Event
	dec := json.NewDecoder(r)
	for {
		var e Event
		err := dec.Decode(&e)
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", len(events)+1, err)
		}
		events = append(events, e)
	}
}

// LoadFile reads a journal from path, accepting both an exported array and
// a streamed newline-delimited file.
func LoadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		case '[':
			return LoadJSON(br)
		default:
			return LoadNDJSON(br)
		}
	}
}
