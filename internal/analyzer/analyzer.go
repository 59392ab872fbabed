package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/acs560/marquee/internal/cache"
	"github.com/acs560/marquee/internal/movie"
)

// Report names, also used as cache names and as HTTP path segments.
const (
	ReportTypes     = "countMoviesVsTVShows"
	ReportAverage   = "avgMovies"
	ReportCountries = "countries"
)

// Reports lists every report name.
var Reports = []string{ReportTypes, ReportAverage, ReportCountries}

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Analyzer renders reports over a movie.Store. Rendered reports are cached
// under the store's epoch and current version, so any movie write makes older
// entries unreachable and catalogs sharing one cache never see each other's
// reports.
type Analyzer struct {
	store  movie.Store
	cache  cache.Store
	logger *slog.Logger
}

// New creates an Analyzer. A nil cache disables caching.
func New(store movie.Store, c cache.Store, logger *slog.Logger) *Analyzer {
	if c == nil {
		c = cache.NoopStore{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{store: store, cache: c, logger: logger.With("component", "analyzer")}
}

// Report renders the named report in format f.
func (a *Analyzer) Report(ctx context.Context, name string, f Format) (string, error) {
	if f != FormatText && f != FormatJSON {
		return "", fmt.Errorf("%w: unknown report format %q", movie.ErrInvalid, f)
	}
	if !knownReport(name) {
		return "", fmt.Errorf("report %q: %w", name, movie.ErrNotFound)
	}

	version, err := a.store.Version(ctx)
	if err != nil {
		return "", err
	}
	epoch, err := a.store.Epoch(ctx)
	if err != nil {
		return "", err
	}
	key := string(f) + ":" + epoch + ":" + strconv.FormatInt(version, 10)

	if cached, err := a.cache.Get(ctx, name, key); err != nil {
		a.logger.Warn("report cache read failed", "report", name, "err", err)
	} else if cached != "" {
		return cached, nil
	}

	movies, err := a.store.All(ctx)
	if err != nil {
		return "", err
	}
	out, err := render(name, f, movies)
	if err != nil {
		return "", err
	}

	if err := a.cache.Set(ctx, name, key, out); err != nil {
		a.logger.Warn("report cache write failed", "report", name, "err", err)
	}
	return out, nil
}

// WriteAll renders every report as text, calling emit once per report.
func (a *Analyzer) WriteAll(ctx context.Context, emit func(name, body string) error) error {
	for _, name := range Reports {
		body, err := a.Report(ctx, name, FormatText)
		if err != nil {
			return err
		}
		if err := emit(name, body); err != nil {
			return err
		}
	}
	return nil
}

func knownReport(name string) bool {
	for _, r := range Reports {
		if r == name {
			return true
		}
	}
	return false
}

func render(name string, f Format, movies []movie.Movie) (string, error) {
	var (
		text string
		data any
	)
	switch name {
	case ReportTypes:
		c := CountByType(movies)
		text, data = c.Text(), c
	case ReportAverage:
		avg := AverageMoviesPerYear(movies)
		text, data = avg.Text(), avg
	case ReportCountries:
		counts := CountryCounts(movies)
		text, data = CountriesText(counts), counts
	}
	if f == FormatText {
		return text, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding %s report: %w", name, err)
	}
	return string(b), nil
}
