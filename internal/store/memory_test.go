package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs560/marquee/internal/movie"
)

func TestNewMemoryStore_SeedsIDsAndTypes(t *testing.T) {
	s := NewMemoryStore([]movie.Movie{
		{ID: 40, Title: "a", Type: movie.TypeMovie},
		{Title: "b", Type: movie.TypeTVShow},
		{Title: "c", Type: "movie"},
	})
	ctx := context.Background()

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})

	types, err := s.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []movie.Type{{ID: 1, Name: movie.TypeMovie}, {ID: 2, Name: movie.TypeTVShow}}, types)

	m, err := s.Add(ctx, movie.Movie{Title: "d", Type: movie.TypeMovie})
	require.NoError(t, err)
	assert.Equal(t, 4, m.ID)
}

func TestMemoryStore_InstancesAreIndependent(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryStore(nil)
	b := NewMemoryStore(nil)

	_, err := a.Add(ctx, movie.Movie{Title: "only in a", Type: movie.TypeMovie})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Add(ctx, movie.Movie{Title: "x", Type: movie.TypeMovie})
			_, _ = s.All(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	v, _ := s.Version(ctx)
	assert.Equal(t, int64(50), v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "netflix_data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description\n"+
			"s1,Movie,Sankofa,Haile Gerima,,Ghana,,1993,TV-MA,125 min,Dramas,\n"), 0o644))

	s, err := Open(ctx, Config{Backend: BackendMemory, CSVPath: csvPath}, nil)
	require.NoError(t, err)
	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Sankofa", all[0].Title)

	sqlStore, err := Open(ctx, Config{Backend: BackendSQL, DatabaseURL: "sqlite://" + filepath.Join(dir, "db", "movies.sqlite")}, nil)
	require.NoError(t, err)
	require.NoError(t, sqlStore.Close())

	_, err = Open(ctx, Config{Backend: BackendSQL}, nil)
	assert.Error(t, err)
	_, err = Open(ctx, Config{Backend: "mongo"}, nil)
	assert.Error(t, err)
	_, err = Open(ctx, Config{Backend: BackendSQL, DatabaseURL: "mysql://root@localhost/db"}, nil)
	assert.Error(t, err)
	_, err = Open(ctx, Config{Backend: BackendMemory, CSVPath: filepath.Join(dir, "missing.csv")}, nil)
	assert.Error(t, err)
}

func TestSQLStore_AddBatch(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQL(ctx, "sqlite://:memory:", 1, nil)
	require.NoError(t, err)
	defer s.Close()

	movies := make([]movie.Movie, 25)
	for i := range movies {
		movies[i] = movie.Movie{ID: 1, Title: "title", Type: movie.TypeMovie, ReleaseYear: 2000 + i}
	}
	require.NoError(t, s.AddBatch(ctx, movies, 10))

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 25)

	v, err := s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	require.NoError(t, s.Ping(ctx))
}
