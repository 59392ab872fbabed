// Package generate builds synthetic catalogs and edit journals for demos
// and load tests. Output is deterministic for a given seed.
package generate

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/racetime"
)

const (
	// PatternSteady spreads edits evenly.
	PatternSteady = "steady"
	// PatternBurst clusters edits into bursts with quiet gaps.
	PatternBurst = "burst"
	// PatternRamp makes edits denser over time.
	PatternRamp = "ramp"
)

// CatalogOptions controls synthetic catalog generation.
type CatalogOptions struct {
	Count       int
	TVShowRatio float64 // fraction of entries that are TV shows
	MinYear     int
	MaxYear     int
	Seed        int64
}

// DefaultCatalogOptions returns the CLI defaults.
func DefaultCatalogOptions() CatalogOptions {
	return CatalogOptions{
		Count:       200,
		TVShowRatio: 0.3,
		MinYear:     1990,
		MaxYear:     2021,
	}
}

// Catalog creates opts.Count movies numbered from 1.
func Catalog(opts CatalogOptions) ([]movie.Movie, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	if opts.TVShowRatio < 0 || opts.TVShowRatio > 1 {
		return nil, fmt.Errorf("tv show ratio must be within [0,1], got %v", opts.TVShowRatio)
	}
	if opts.MinYear <= 0 || opts.MaxYear < opts.MinYear {
		return nil, fmt.Errorf("invalid year range %d-%d", opts.MinYear, opts.MaxYear)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	f := gofakeit.New(opts.Seed)
	out := make([]movie.Movie, opts.Count)
	for i := range out {
		out[i] = fakeMovie(f, i+1, opts)
	}
	return out, nil
}

// WriteCatalog generates a catalog and writes it as CSV.
func WriteCatalog(w io.Writer, opts CatalogOptions) (int, error) {
	movies, err := Catalog(opts)
	if err != nil {
		return 0, err
	}
	if err := movie.WriteCSV(w, movies); err != nil {
		return 0, fmt.Errorf("writing catalog: %w", err)
	}
	return len(movies), nil
}

func fakeMovie(f *gofakeit.Faker, id int, opts CatalogOptions) movie.Movie {
	m := movie.Movie{
		ID:          id,
		Title:       title(f),
		ReleaseYear: f.Number(opts.MinYear, opts.MaxYear),
		Countries:   countries(f),
	}
	if f.Float64() < opts.TVShowRatio {
		m.Type = movie.TypeTVShow
		// Shows are often credited without a director.
		if f.Bool() {
			m.Director = f.Name()
		}
		return m
	}
	m.Type = movie.TypeMovie
	m.Director = f.Name()
	if rt, err := racetime.FromMinutes(float64(f.Number(70, 180))); err == nil {
		m.Runtime = &rt
	}
	return m
}

func title(f *gofakeit.Faker) string {
	words := []string{f.Adjective(), f.Noun()}
	if f.Number(0, 2) == 0 {
		words = append([]string{"The"}, words...)
	}
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func countries(f *gofakeit.Faker) string {
	n := f.Number(0, 3)
	if n == 0 {
		return ""
	}
	seen := make(map[string]bool, n)
	var out []string
	for len(out) < n {
		c := f.Country()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return strings.Join(out, ", ")
}

// JournalOptions controls synthetic edit journals.
type JournalOptions struct {
	Count    int
	Duration time.Duration
	Pattern  string
	Start    time.Time
	Seed     int64
}

// DefaultJournalOptions returns the CLI defaults.
func DefaultJournalOptions() JournalOptions {
	return JournalOptions{
		Count:    100,
		Duration: 5 * time.Minute,
		Pattern:  PatternSteady,
	}
}

// Journal creates a session of catalog edits. Adds come first for each
// movie; later updates and deletes only touch movies that were added
// earlier in the same journal and not yet deleted.
func Journal(opts JournalOptions) ([]journal.Event, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", opts.Duration)
	}
	if opts.Pattern == "" {
		opts.Pattern = PatternSteady
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Truncate(time.Second)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	f := gofakeit.New(opts.Seed)

	var times []time.Time
	switch opts.Pattern {
	case PatternBurst:
		times = burstTimes(rng, opts.Start, opts.Count, opts.Duration)
	case PatternRamp:
		times = rampTimes(opts.Start, opts.Count, opts.Duration)
	default: // steady and unknown patterns
		times = steadyTimes(opts.Start, opts.Count, opts.Duration)
	}

	catalogOpts := DefaultCatalogOptions()
	live := make(map[int]movie.Movie)
	var liveIDs []int
	nextID := 1

	events := make([]journal.Event, 0, opts.Count)
	for _, at := range times {
		kind := journal.KindAdd
		if len(liveIDs) > 0 {
			switch r := rng.Intn(10); {
			case r < 2:
				kind = journal.KindDelete
			case r < 5:
				kind = journal.KindUpdate
			}
		}

		var m movie.Movie
		switch kind {
		case journal.KindAdd:
			m = fakeMovie(f, nextID, catalogOpts)
			nextID++
			live[m.ID] = m
			liveIDs = append(liveIDs, m.ID)
		case journal.KindUpdate:
			m = live[liveIDs[rng.Intn(len(liveIDs))]]
			m.ReleaseYear = f.Number(catalogOpts.MinYear, catalogOpts.MaxYear)
			m.Countries = countries(f)
			live[m.ID] = m
		case journal.KindDelete:
			i := rng.Intn(len(liveIDs))
			m = movie.Movie{ID: liveIDs[i]}
			delete(live, m.ID)
			liveIDs = append(liveIDs[:i], liveIDs[i+1:]...)
		}

		e := journal.MovieEvent(at, kind, m)
		if id, err := uuid.NewRandomFromReader(rng); err == nil {
			e.ID = id
		}
		events = append(events, e)
	}
	return events, nil
}

func steadyTimes(start time.Time, count int, dur time.Duration) []time.Time {
	interval := dur / time.Duration(count)
	out := make([]time.Time, count)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * interval)
	}
	return out
}

// burstTimes places edits in four one-second bursts across the window.
// Times are ascending so that the add before any update stays first.
func burstTimes(rng *rand.Rand, start time.Time, count int, dur time.Duration) []time.Time {
	const numBursts = 4
	burstGap := dur / numBursts
	out := make([]time.Time, count)
	for i := range out {
		b := i * numBursts / count
		offset := time.Duration(i%(count/numBursts+1)) * time.Millisecond * 10
		jitter := time.Duration(rng.Intn(5)) * time.Millisecond
		out[i] = start.Add(time.Duration(b)*burstGap + offset + jitter)
	}
	for i := 1; i < len(out); i++ {
		if !out[i].After(out[i-1]) {
			out[i] = out[i-1].Add(time.Millisecond)
		}
	}
	return out
}

func rampTimes(start time.Time, count int, dur time.Duration) []time.Time {
	out := make([]time.Time, count)
	for i := range out {
		frac := float64(i) / float64(count)
		out[i] = start.Add(time.Duration(frac * frac * float64(dur)))
	}
	return out
}
