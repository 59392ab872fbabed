package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/acs560/marquee/internal/movie"
)

// MemoryStore keeps the catalog in maps owned by the instance. Nothing is
// shared between instances, so each caller that needs a catalog builds one
// explicitly, usually seeded from a CSV export.
//
// Safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	movies     map[int]movie.Movie
	types      map[int]movie.Type
	nextID     int
	nextTypeID int
	version    int64
	epoch      string
}

var _ movie.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding seed, numbered from 1 in order.
// Each distinct movie type in seed is registered as a Type.
func NewMemoryStore(seed []movie.Movie) *MemoryStore {
	s := &MemoryStore{
		movies:     make(map[int]movie.Movie, len(seed)),
		types:      make(map[int]movie.Type),
		nextID:     1,
		nextTypeID: 1,
		epoch:      uuid.NewString(),
	}
	for _, m := range seed {
		m.ID = s.nextID
		s.nextID++
		s.movies[m.ID] = m
		if m.Type != "" && s.typeByNameLocked(m.Type) == nil {
			s.types[s.nextTypeID] = movie.Type{ID: s.nextTypeID, Name: m.Type}
			s.nextTypeID++
		}
	}
	return s
}

func (s *MemoryStore) All(ctx context.Context) ([]movie.Movie, error) {
	return s.Find(ctx, movie.Filter{})
}

func (s *MemoryStore) Get(_ context.Context, id int) (movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[id]
	if !ok {
		return movie.Movie{}, fmt.Errorf("movie %d: %w", id, movie.ErrNotFound)
	}
	return m, nil
}

func (s *MemoryStore) Find(_ context.Context, f movie.Filter) ([]movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]movie.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Add(_ context.Context, m movie.Movie) (movie.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(m), nil
}

func (s *MemoryStore) AddUnique(_ context.Context, m movie.Movie) (movie.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.movies {
		if e.SameWork(m) {
			return movie.Movie{}, fmt.Errorf("movie %q by %q (%d): %w",
				m.Title, m.Director, m.ReleaseYear, movie.ErrAlreadyExists)
		}
	}
	return s.addLocked(m), nil
}

// addLocked must be called with s.mu held.
func (s *MemoryStore) addLocked(m movie.Movie) movie.Movie {
	m.ID = s.nextID
	s.nextID++
	s.movies[m.ID] = m
	s.version++
	return m
}

func (s *MemoryStore) Update(_ context.Context, m movie.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[m.ID]; !ok {
		return fmt.Errorf("movie %d: %w", m.ID, movie.ErrNotFound)
	}
	s.movies[m.ID] = m
	s.version++
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return fmt.Errorf("movie %d: %w", id, movie.ErrNotFound)
	}
	delete(s.movies, id)
	s.version++
	return nil
}

func (s *MemoryStore) Types(_ context.Context) ([]movie.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]movie.Type, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetType(_ context.Context, id int) (movie.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[id]
	if !ok {
		return movie.Type{}, fmt.Errorf("type %d: %w", id, movie.ErrNotFound)
	}
	return t, nil
}

func (s *MemoryStore) TypeByName(_ context.Context, name string) (movie.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t := s.typeByNameLocked(name); t != nil {
		return *t, nil
	}
	return movie.Type{}, fmt.Errorf("type %q: %w", name, movie.ErrNotFound)
}

func (s *MemoryStore) AddType(_ context.Context, t movie.Type) (movie.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typeByNameLocked(t.Name) != nil {
		return movie.Type{}, fmt.Errorf("type %q: %w", t.Name, movie.ErrAlreadyExists)
	}
	if t.ID == 0 {
		t.ID = s.nextTypeID
	} else if _, ok := s.types[t.ID]; ok {
		return movie.Type{}, fmt.Errorf("type %d: %w", t.ID, movie.ErrAlreadyExists)
	}
	if t.ID >= s.nextTypeID {
		s.nextTypeID = t.ID + 1
	}
	s.types[t.ID] = t
	return t, nil
}

func (s *MemoryStore) UpdateType(_ context.Context, t movie.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.types[t.ID]; !ok {
		return fmt.Errorf("type %d: %w", t.ID, movie.ErrNotFound)
	}
	if other := s.typeByNameLocked(t.Name); other != nil && other.ID != t.ID {
		return fmt.Errorf("type %q: %w", t.Name, movie.ErrAlreadyExists)
	}
	s.types[t.ID] = t
	return nil
}

func (s *MemoryStore) DeleteType(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.types[id]; !ok {
		return fmt.Errorf("type %d: %w", id, movie.ErrNotFound)
	}
	delete(s.types, id)
	return nil
}

func (s *MemoryStore) Version(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, nil
}

// Epoch is fixed at construction. Each process seeding from a CSV gets a
// fresh one.
func (s *MemoryStore) Epoch(_ context.Context) (string, error) {
	return s.epoch, nil
}

// Len returns the number of movies held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

func (s *MemoryStore) Close() error { return nil }

// typeByNameLocked must be called with s.mu held.
func (s *MemoryStore) typeByNameLocked(name string) *movie.Type {
	for _, t := range s.types {
		if strings.EqualFold(t.Name, name) {
			return &t
		}
	}
	return nil
}
