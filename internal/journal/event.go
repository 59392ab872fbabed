// Package journal records catalog changes as events, exports them, and
// replays them onto another store.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acs560/marquee/internal/movie"
)

// Kind is the change an event describes.
type Kind string

const (
	KindAdd    Kind = "add"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Entity names what was changed.
type Entity string

const (
	EntityMovie Entity = "movie"
	EntityType  Entity = "type"
)

var ErrBadEvent = errors.New("journal: malformed event")

// Event is one catalog change. Exactly one of Movie and Type is set,
// matching Entity.
type Event struct {
	ID     uuid.UUID    `json:"id"`
	Time   time.Time    `json:"time"`
	Kind   Kind         `json:"kind"`
	Entity Entity       `json:"entity"`
	Movie  *movie.Movie `json:"movie,omitempty"`
	Type   *movie.Type  `json:"type,omitempty"`
}

// MovieEvent builds an event for a movie change.
func MovieEvent(at time.Time, kind Kind, m movie.Movie) Event {
	return Event{ID: uuid.New(), Time: at, Kind: kind, Entity: EntityMovie, Movie: &m}
}

// TypeEvent builds an event for a type change.
func TypeEvent(at time.Time, kind Kind, t movie.Type) Event {
	return Event{ID: uuid.New(), Time: at, Kind: kind, Entity: EntityType, Type: &t}
}

// SubjectID is the id of the changed movie or type.
func (e Event) SubjectID() int {
	switch {
	case e.Movie != nil:
		return e.Movie.ID
	case e.Type != nil:
		return e.Type.ID
	}
	return 0
}

// Validate reports whether the event can be replayed.
func (e Event) Validate() error {
	switch e.Kind {
	case KindAdd, KindUpdate, KindDelete:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrBadEvent, e.Kind)
	}
	switch {
	case e.Entity == EntityMovie && e.Movie != nil:
	case e.Entity == EntityType && e.Type != nil:
	default:
		return fmt.Errorf("%w: entity %q without a matching payload", ErrBadEvent, e.Entity)
	}
	return nil
}

// Sink receives events as they happen.
type Sink interface {
	Record(Event) error
}

// Tee fans an event out to every sink, returning the joined errors.
type Tee []Sink

func (t Tee) Record(e Event) error {
	var errs []error
	for _, s := range t {
		if s == nil {
			continue
		}
		if err := s.Record(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
