// Package movie defines the catalog model shared by the store backends, the
// analyzer and the HTTP layer.
package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acs560/marquee/internal/racetime"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalid       = errors.New("invalid movie")
)

// Catalog types found in the Netflix export.
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// Movie is a single catalog entry. Countries is the raw comma-separated list
// from the source data.
type Movie struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Director    string         `json:"director"`
	Type        string         `json:"type"`
	Countries   string         `json:"countries"`
	ReleaseYear int            `json:"releaseYear"`
	Runtime     *racetime.Time `json:"runtime,omitempty"`
}

// Validate checks the fields a client must supply.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if strings.TrimSpace(m.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrInvalid)
	}
	if m.ReleaseYear < 0 {
		return fmt.Errorf("%w: release year must not be negative", ErrInvalid)
	}
	return nil
}

// SameWork reports whether m and o describe the same title by the same
// director in the same year, ignoring case.
func (m Movie) SameWork(o Movie) bool {
	return strings.EqualFold(m.Title, o.Title) &&
		strings.EqualFold(m.Director, o.Director) &&
		m.ReleaseYear == o.ReleaseYear
}

// Type is a catalog category such as "Movie" or "TV Show".
type Type struct {
	ID   int    `json:"typeId"`
	Name string `json:"type"`
}

// Filter selects movies. Empty string fields and a zero ReleaseYear match
// anything; string comparisons ignore case. TitleContains matches any part
// of the title.
type Filter struct {
	Title         string `json:"title,omitempty"`
	TitleContains string `json:"titleContains,omitempty"`
	Director    string `json:"director,omitempty"`
	Type        string `json:"type,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
}

// Match returns true if m passes the filter.
func (f Filter) Match(m Movie) bool {
	if f.Title != "" && !strings.EqualFold(f.Title, m.Title) {
		return false
	}
	if f.TitleContains != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	if f.Director != "" && !strings.EqualFold(f.Director, m.Director) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(f.Type, m.Type) {
		return false
	}
	if f.ReleaseYear != 0 && f.ReleaseYear != m.ReleaseYear {
		return false
	}
	return true
}

// Store is the persistence contract for movies and types.
// Implementations must be safe for concurrent use.
type Store interface {
	All(ctx context.Context) ([]Movie, error)
	// Get returns ErrNotFound if no movie has the id.
	Get(ctx context.Context, id int) (Movie, error)
	Find(ctx context.Context, f Filter) ([]Movie, error)
	// Add assigns and returns a fresh id; m.ID is ignored.
	Add(ctx context.Context, m Movie) (Movie, error)
	// AddUnique is Add, but returns ErrAlreadyExists when a movie that is
	// the SameWork as m is already stored. The check and the insert are
	// one atomic step.
	AddUnique(ctx context.Context, m Movie) (Movie, error)
	// Update replaces the movie with m.ID, or returns ErrNotFound.
	Update(ctx context.Context, m Movie) error
	Delete(ctx context.Context, id int) error

	Types(ctx context.Context) ([]Type, error)
	GetType(ctx context.Context, id int) (Type, error)
	TypeByName(ctx context.Context, name string) (Type, error)
	// AddType returns ErrAlreadyExists if the name or a non-zero id is taken.
	AddType(ctx context.Context, t Type) (Type, error)
	UpdateType(ctx context.Context, t Type) error
	DeleteType(ctx context.Context, id int) error

	// Version changes every time the movie set is modified. Callers use it
	// to invalidate derived data.
	Version(ctx context.Context) (int64, error)
	// Epoch identifies this catalog instance. Two catalogs never share an
	// epoch, so (Epoch, Version) names one state across processes.
	Epoch(ctx context.Context) (string, error)

	Close() error
}
