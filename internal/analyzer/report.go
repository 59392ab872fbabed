// Package analyzer computes catalog statistics: movies against TV shows,
// average movies per release year, and per-country counts.
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/acs560/marquee/internal/movie"
)

const rule = "==============================\n"

// TypeCounts is the movies against TV shows tally.
type TypeCounts struct {
	Movies  int `json:"movies"`
	TVShows int `json:"tvShows"`
}

// YearAverage is the number of movies divided by the number of distinct
// release years they span. Years is zero when there are no movies.
type YearAverage struct {
	TotalMovies int     `json:"totalMovies"`
	Years       int     `json:"years"`
	Average     float64 `json:"averagePerYear"`
}

// CountryCount is how many catalog entries list a country.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CountByType tallies entries whose type is "Movie" or "TV Show", ignoring
// case. Other types are not counted.
func CountByType(movies []movie.Movie) TypeCounts {
	var c TypeCounts
	for _, m := range movies {
		switch {
		case strings.EqualFold(m.Type, movie.TypeMovie):
			c.Movies++
		case strings.EqualFold(m.Type, movie.TypeTVShow):
			c.TVShows++
		}
	}
	return c
}

// AverageMoviesPerYear averages movies over the distinct release years that
// have at least one movie. An unknown year (0) counts as a year of its own.
func AverageMoviesPerYear(movies []movie.Movie) YearAverage {
	perYear := make(map[int]int)
	var avg YearAverage
	for _, m := range movies {
		if !strings.EqualFold(m.Type, movie.TypeMovie) {
			continue
		}
		avg.TotalMovies++
		perYear[m.ReleaseYear]++
	}
	avg.Years = len(perYear)
	if avg.Years > 0 {
		avg.Average = float64(avg.TotalMovies) / float64(avg.Years)
	}
	return avg
}

// CountryCounts splits each entry's comma separated country list and counts
// every trimmed, non-empty name. The result is ordered by descending count,
// then by name.
func CountryCounts(movies []movie.Movie) []CountryCount {
	counts := make(map[string]int)
	for _, m := range movies {
		if strings.TrimSpace(m.Countries) == "" {
			continue
		}
		for _, c := range strings.Split(m.Countries, ",") {
			if c = strings.TrimSpace(c); c != "" {
				counts[c]++
			}
		}
	}

	out := make([]CountryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CountryCount{Country: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	return out
}

// Text renders the counts as the fixed-width report.
func (c TypeCounts) Text() string {
	var b strings.Builder
	b.WriteString("=== Count of Movies vs TV Shows ===\n")
	fmt.Fprintf(&b, "%-25s %s\n", "Type", "Count")
	b.WriteString(rule)
	fmt.Fprintf(&b, "%-25s %d\n", "Movies", c.Movies)
	fmt.Fprintf(&b, "%-25s %d\n", "TV Shows", c.TVShows)
	return b.String()
}

func (a YearAverage) Text() string {
	var b strings.Builder
	b.WriteString("=== Average Movies per Year ===\n")
	fmt.Fprintf(&b, "%-25s %s\n", "Total Movies:", "Average Movies per Year")
	b.WriteString(rule)
	if a.Years > 0 {
		fmt.Fprintf(&b, "%-25d %.2f\n", a.TotalMovies, a.Average)
	} else {
		fmt.Fprintf(&b, "%-25s %s\n", "No movies found.", "")
	}
	return b.String()
}

// CountriesText renders country counts as the fixed-width report.
func CountriesText(counts []CountryCount) string {
	var b strings.Builder
	b.WriteString("=== Unique Countries and their Counts ===\n")
	fmt.Fprintf(&b, "%-25s %s\n", "Country", "Count")
	b.WriteString(rule)
	for _, c := range counts {
		fmt.Fprintf(&b, "%-25s %d\n", c.Country, c.Count)
	}
	return b.String()
}
