// Package service holds the catalog business rules between the HTTP and CLI
// front ends and a movie.Store. Every successful write is published as a
// journal event.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/racetime"
)

// Options are shared by the services.
type Options struct {
	// Sink receives an event per write. Nil discards events.
	Sink journal.Sink
	// Clock timestamps events. Nil uses the real clock.
	Clock  clock.Source
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Sink == nil {
		o.Sink = journal.Tee(nil)
	}
	if o.Clock == nil {
		o.Clock = clock.NewRealSource()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Movies manages catalog entries.
type Movies struct {
	store movie.Store
	opts  Options
}

// NewMovies creates a movie service over s.
func NewMovies(s movie.Store, opts Options) *Movies {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("component", "movies")
	return &Movies{store: s, opts: opts}
}

func (s *Movies) List(ctx context.Context) ([]movie.Movie, error) {
	return s.store.All(ctx)
}

func (s *Movies) Get(ctx context.Context, id int) (movie.Movie, error) {
	return s.store.Get(ctx, id)
}

func (s *Movies) Find(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	return s.store.Find(ctx, f)
}

// Add stores m under a fresh id. A movie with the same title, director and
// release year is rejected with movie.ErrAlreadyExists.
func (s *Movies) Add(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, err
	}

	added, err := s.store.AddUnique(ctx, m)
	if err != nil {
		return movie.Movie{}, err
	}
	s.publish(journal.MovieEvent(s.opts.Clock.Now(), journal.KindAdd, added))
	return added, nil
}

// Update replaces the movie with the given id.
func (s *Movies) Update(ctx context.Context, id int, m movie.Movie) (movie.Movie, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, err
	}
	m.ID = id
	if err := s.store.Update(ctx, m); err != nil {
		return movie.Movie{}, err
	}
	s.publish(journal.MovieEvent(s.opts.Clock.Now(), journal.KindUpdate, m))
	return m, nil
}

// Delete removes the movie with the given id.
func (s *Movies) Delete(ctx context.Context, id int) error {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(journal.MovieEvent(s.opts.Clock.Now(), journal.KindDelete, m))
	return nil
}

// Runtime returns the movie's running time. Entries without one, such as
// TV shows, report movie.ErrNotFound.
func (s *Movies) Runtime(ctx context.Context, id int) (racetime.Time, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return racetime.Time{}, err
	}
	if m.Runtime == nil {
		return racetime.Time{}, fmt.Errorf("runtime of movie %d: %w", id, movie.ErrNotFound)
	}
	return *m.Runtime, nil
}

func (s *Movies) publish(e journal.Event) {
	if err := s.opts.Sink.Record(e); err != nil {
		s.opts.Logger.Warn("publishing change event failed", "kind", e.Kind, "id", e.SubjectID(), "err", err)
	}
}
