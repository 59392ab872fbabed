package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/racetime"
)

type storeFactory struct {
	name string
	new  func(t *testing.T) movie.Store
}

func factories() []storeFactory {
	return []storeFactory{
		{
			name: "memory",
			new: func(t *testing.T) movie.Store {
				return NewMemoryStore(nil)
			},
		},
		{
			name: "sqlite",
			new: func(t *testing.T) movie.Store {
				t.Helper()
				s, err := OpenSQL(context.Background(), "sqlite://:memory:", 1, nil)
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
	}
}

func TestStoreContract(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			t.Run("movies", func(t *testing.T) { contractMovies(t, f.new(t)) })
			t.Run("find", func(t *testing.T) { contractFind(t, f.new(t)) })
			t.Run("types", func(t *testing.T) { contractTypes(t, f.new(t)) })
			t.Run("version", func(t *testing.T) { contractVersion(t, f.new(t)) })
			t.Run("epoch", func(t *testing.T) { contractEpoch(t, f.new(t), f.new(t)) })
			t.Run("add unique", func(t *testing.T) { contractAddUnique(t, f.new(t)) })
			t.Run("concurrent add unique", func(t *testing.T) { contractConcurrentAddUnique(t, f.new(t)) })
		})
	}
}

func contractMovies(t *testing.T, s movie.Store) {
	ctx := context.Background()
	runtime := racetime.MustParse("1:30:00")

	added, err := s.Add(ctx, movie.Movie{
		ID:          99,
		Title:       "Dick Johnson Is Dead",
		Director:    "Kirsten Johnson",
		Type:        movie.TypeMovie,
		Countries:   "United States",
		ReleaseYear: 2020,
		Runtime:     &runtime,
	})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.NotEqual(t, 99, added.ID, "Add must assign its own id")

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dick Johnson Is Dead", got.Title)
	require.NotNil(t, got.Runtime)
	assert.Equal(t, "1:30:00", got.Runtime.String())

	got.Title = "Dick Johnson Is Dead (Director's Cut)"
	got.Runtime = nil
	require.NoError(t, s.Update(ctx, got))

	got, err = s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dick Johnson Is Dead (Director's Cut)", got.Title)
	assert.Nil(t, got.Runtime)

	assert.ErrorIs(t, s.Update(ctx, movie.Movie{ID: 12345, Title: "ghost", Type: movie.TypeMovie}), movie.ErrNotFound)

	require.NoError(t, s.Delete(ctx, added.ID))
	_, err = s.Get(ctx, added.ID)
	assert.ErrorIs(t, err, movie.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, added.ID), movie.ErrNotFound)
}

func contractFind(t *testing.T, s movie.Store) {
	ctx := context.Background()
	seed := []movie.Movie{
		{Title: "Sankofa", Director: "Haile Gerima", Type: movie.TypeMovie, ReleaseYear: 1993},
		{Title: "Blood & Water", Type: movie.TypeTVShow, ReleaseYear: 2021},
		{Title: "Ganglands", Director: "Julien Leclercq", Type: movie.TypeTVShow, ReleaseYear: 2021},
		{Title: "The Starling", Director: "Theodore Melfi", Type: movie.TypeMovie, ReleaseYear: 2021},
	}
	for _, m := range seed {
		_, err := s.Add(ctx, m)
		require.NoError(t, err)
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID, "All must be ordered by id")
	}

	tests := []struct {
		name   string
		filter movie.Filter
		want   []string
	}{
		{"title", movie.Filter{Title: "sankofa"}, []string{"Sankofa"}},
		{"director", movie.Filter{Director: "JULIEN LECLERCQ"}, []string{"Ganglands"}},
		{"type", movie.Filter{Type: "tv show"}, []string{"Blood & Water", "Ganglands"}},
		{"year", movie.Filter{ReleaseYear: 2021}, []string{"Blood & Water", "Ganglands", "The Starling"}},
		{"year type", movie.Filter{ReleaseYear: 2021, Type: "Movie"}, []string{"The Starling"}},
		{"director year type", movie.Filter{Director: "haile gerima", ReleaseYear: 1993, Type: "movie"}, []string{"Sankofa"}},
		{"title contains", movie.Filter{TitleContains: "AN"}, []string{"Sankofa", "Ganglands"}},
		{"title contains literal ampersand", movie.Filter{TitleContains: "d & w"}, []string{"Blood & Water"}},
		{"title contains wildcard is literal", movie.Filter{TitleContains: "%"}, nil},
		{"no match", movie.Filter{Director: "nobody"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := s.Find(ctx, tt.filter)
			require.NoError(t, err)
			var titles []string
			for _, m := range found {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func contractTypes(t *testing.T, s movie.Store) {
	ctx := context.Background()

	mv, err := s.AddType(ctx, movie.Type{Name: movie.TypeMovie})
	require.NoError(t, err)
	assert.NotZero(t, mv.ID)

	tv, err := s.AddType(ctx, movie.Type{ID: 7, Name: movie.TypeTVShow})
	require.NoError(t, err)
	assert.Equal(t, 7, tv.ID)

	_, err = s.AddType(ctx, movie.Type{Name: "movie"})
	assert.ErrorIs(t, err, movie.ErrAlreadyExists)
	_, err = s.AddType(ctx, movie.Type{ID: 7, Name: "Documentary"})
	assert.ErrorIs(t, err, movie.ErrAlreadyExists)

	got, err := s.TypeByName(ctx, "tv SHOW")
	require.NoError(t, err)
	assert.Equal(t, tv, got)

	require.NoError(t, s.UpdateType(ctx, movie.Type{ID: 7, Name: "Series"}))
	got, err = s.GetType(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Series", got.Name)
	assert.ErrorIs(t, s.UpdateType(ctx, movie.Type{ID: 7, Name: movie.TypeMovie}), movie.ErrAlreadyExists)
	assert.ErrorIs(t, s.UpdateType(ctx, movie.Type{ID: 500, Name: "Short"}), movie.ErrNotFound)

	types, err := s.Types(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	require.NoError(t, s.DeleteType(ctx, 7))
	_, err = s.GetType(ctx, 7)
	assert.ErrorIs(t, err, movie.ErrNotFound)
	assert.ErrorIs(t, s.DeleteType(ctx, 7), movie.ErrNotFound)
	_, err = s.TypeByName(ctx, "Series")
	assert.ErrorIs(t, err, movie.ErrNotFound)
}

func contractVersion(t *testing.T, s movie.Store) {
	ctx := context.Background()

	v0, err := s.Version(ctx)
	require.NoError(t, err)

	m, err := s.Add(ctx, movie.Movie{Title: "Kota Factory", Type: movie.TypeTVShow, ReleaseYear: 2021})
	require.NoError(t, err)
	v1, _ := s.Version(ctx)
	assert.Greater(t, v1, v0)

	_, _ = s.All(ctx)
	v1again, _ := s.Version(ctx)
	assert.Equal(t, v1, v1again, "reads must not change the version")

	m.ReleaseYear = 2019
	require.NoError(t, s.Update(ctx, m))
	v2, _ := s.Version(ctx)
	assert.Greater(t, v2, v1)

	require.NoError(t, s.Delete(ctx, m.ID))
	v3, _ := s.Version(ctx)
	assert.Greater(t, v3, v2)
}

func contractEpoch(t *testing.T, s, other movie.Store) {
	ctx := context.Background()

	e1, err := s.Epoch(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, e1)

	_, err = s.Add(ctx, movie.Movie{Title: "Kota Factory", Type: movie.TypeTVShow, ReleaseYear: 2021})
	require.NoError(t, err)
	again, _ := s.Epoch(ctx)
	assert.Equal(t, e1, again, "writes must not change the epoch")

	e2, err := other.Epoch(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, e1, e2, "separate catalogs must not share an epoch")
}

func contractAddUnique(t *testing.T, s movie.Store) {
	ctx := context.Background()
	m := movie.Movie{Title: "Sankofa", Director: "Haile Gerima", Type: movie.TypeMovie, ReleaseYear: 1993}

	added, err := s.AddUnique(ctx, m)
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	v, _ := s.Version(ctx)

	_, err = s.AddUnique(ctx, movie.Movie{Title: "SANKOFA", Director: "haile gerima", Type: movie.TypeMovie, ReleaseYear: 1993})
	assert.ErrorIs(t, err, movie.ErrAlreadyExists)
	after, _ := s.Version(ctx)
	assert.Equal(t, v, after, "a rejected add must not bump the version")

	m.ReleaseYear = 2020
	_, err = s.AddUnique(ctx, m)
	assert.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func contractConcurrentAddUnique(t *testing.T, s movie.Store) {
	ctx := context.Background()
	m := movie.Movie{Title: "Blood & Water", Director: "Nosipho Dumisa", Type: movie.TypeTVShow, ReleaseYear: 2021}

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		added    int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddUnique(ctx, m)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				added++
			case errors.Is(err, movie.ErrAlreadyExists):
				rejected++
			default:
				t.Errorf("AddUnique: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, added)
	assert.Equal(t, workers-1, rejected)
	found, err := s.Find(ctx, movie.Filter{Title: m.Title})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
