package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/movie"
)

// Types manages catalog categories.
type Types struct {
	store movie.Store
	opts  Options
}

func NewTypes(s movie.Store, opts Options) *Types {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("component", "types")
	return &Types{store: s, opts: opts}
}

func (s *Types) List(ctx context.Context) ([]movie.Type, error) {
	return s.store.Types(ctx)
}

func (s *Types) Get(ctx context.Context, id int) (movie.Type, error) {
	return s.store.GetType(ctx, id)
}

func (s *Types) ByName(ctx context.Context, name string) (movie.Type, error) {
	return s.store.TypeByName(ctx, name)
}

// Add registers a type. Names are unique ignoring case.
func (s *Types) Add(ctx context.Context, t movie.Type) (movie.Type, error) {
	if err := validateType(t); err != nil {
		return movie.Type{}, err
	}
	added, err := s.store.AddType(ctx, t)
	if err != nil {
		return movie.Type{}, err
	}
	s.publish(journal.TypeEvent(s.opts.Clock.Now(), journal.KindAdd, added))
	return added, nil
}

func (s *Types) Update(ctx context.Context, id int, t movie.Type) (movie.Type, error) {
	if err := validateType(t); err != nil {
		return movie.Type{}, err
	}
	t.ID = id
	if err := s.store.UpdateType(ctx, t); err != nil {
		return movie.Type{}, err
	}
	s.publish(journal.TypeEvent(s.opts.Clock.Now(), journal.KindUpdate, t))
	return t, nil
}

func (s *Types) Delete(ctx context.Context, id int) error {
	t, err := s.store.GetType(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteType(ctx, id); err != nil {
		return err
	}
	s.publish(journal.TypeEvent(s.opts.Clock.Now(), journal.KindDelete, t))
	return nil
}

func (s *Types) publish(e journal.Event) {
	if err := s.opts.Sink.Record(e); err != nil {
		s.opts.Logger.Warn("publishing change event failed", "kind", e.Kind, "id", e.SubjectID(), "err", err)
	}
}

func validateType(t movie.Type) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: type name is required", movie.ErrInvalid)
	}
	if t.ID < 0 {
		return fmt.Errorf("%w: type id must not be negative", movie.ErrInvalid)
	}
	return nil
}
