package movie

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/acs560/marquee/internal/racetime"
)

// Column positions in the Netflix catalog export.
const (
	colShowID = iota
	colType
	colTitle
	colDirector
	colCast
	colCountry
	colDateAdded
	colReleaseYear
	colRating
	colDuration
	colListedIn
	colDescription

	numColumns
)

// CSVHeader is the header row of the Netflix catalog export.
var CSVHeader = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

// LoadCSV reads catalog rows after the header. Rows too short to carry a
// release year are skipped; an unparsable year is stored as 0.
func LoadCSV(r io.Reader) ([]Movie, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var out []Movie
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if len(row) <= colReleaseYear {
			continue
		}

		m := Movie{
			Type:        strings.TrimSpace(row[colType]),
			Title:       row[colTitle],
			Director:    row[colDirector],
			Countries:   row[colCountry],
			ReleaseYear: parseYear(row[colReleaseYear]),
		}
		if len(row) > colDuration {
			m.Runtime = parseRuntime(row[colDuration])
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadCSVFile opens path and calls LoadCSV.
func LoadCSVFile(path string) ([]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// WriteCSV writes movies in the catalog layout. Columns the model does not
// carry are left empty, except show_id which is derived from the id.
func WriteCSV(w io.Writer, movies []Movie) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, m := range movies {
		row := make([]string, numColumns)
		row[colShowID] = "s" + strconv.Itoa(m.ID)
		row[colType] = m.Type
		row[colTitle] = m.Title
		row[colDirector] = m.Director
		row[colCountry] = m.Countries
		row[colReleaseYear] = strconv.Itoa(m.ReleaseYear)
		if m.Runtime != nil {
			row[colDuration] = strconv.Itoa(int(m.Runtime.Value())) + " min"
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseYear(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// parseRuntime understands "90 min". Season counts and blanks yield nil.
func parseRuntime(s string) *racetime.Time {
	s = strings.TrimSpace(s)
	mins, ok := strings.CutSuffix(s, " min")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(mins)
	if err != nil {
		return nil
	}
	t, err := racetime.FromMinutes(float64(n))
	if err != nil {
		return nil
	}
	return &t
}
