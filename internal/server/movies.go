package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/acs560/marquee/internal/movie"
)

func (s *Server) listMovies(c echo.Context) error {
	movies, err := s.movies.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

func (s *Server) getMovie(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	m, err := s.movies.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// RuntimeResponse reports a movie's running time both ways.
type RuntimeResponse struct {
	ID      int     `json:"id"`
	Runtime string  `json:"runtime"`
	Minutes float64 `json:"minutes"`
}

func (s *Server) getRuntime(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	rt, err := s.movies.Runtime(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RuntimeResponse{ID: id, Runtime: rt.String(), Minutes: rt.Value()})
}

func (s *Server) moviesByTitle(c echo.Context) error {
	return s.find(c, movie.Filter{Title: textParam(c, "title")})
}

func (s *Server) moviesByDirector(c echo.Context) error {
	return s.find(c, movie.Filter{Director: textParam(c, "director")})
}

func (s *Server) moviesByType(c echo.Context) error {
	return s.find(c, movie.Filter{Type: textParam(c, "type")})
}

func (s *Server) moviesByYear(c echo.Context) error {
	year, err := intParam(c, "year")
	if err != nil {
		return err
	}
	return s.find(c, movie.Filter{ReleaseYear: year})
}

func (s *Server) moviesByDirectorType(c echo.Context) error {
	return s.find(c, movie.Filter{Director: textParam(c, "director"), Type: textParam(c, "type")})
}

func (s *Server) moviesByYearType(c echo.Context) error {
	year, err := intParam(c, "year")
	if err != nil {
		return err
	}
	return s.find(c, movie.Filter{ReleaseYear: year, Type: textParam(c, "type")})
}

func (s *Server) moviesByDirectorYearType(c echo.Context) error {
	year, err := intParam(c, "year")
	if err != nil {
		return err
	}
	return s.find(c, movie.Filter{Director: textParam(c, "director"), ReleaseYear: year, Type: textParam(c, "type")})
}

// searchMovies combines any of title, titleContains, director, type and
// releaseYear query parameters.
func (s *Server) searchMovies(c echo.Context) error {
	f := movie.Filter{
		Title:         c.QueryParam("title"),
		TitleContains: c.QueryParam("titleContains"),
		Director:      c.QueryParam("director"),
		Type:          c.QueryParam("type"),
	}
	if y := c.QueryParam("releaseYear"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return badRequest("releaseYear must be an integer, got %q", y)
		}
		f.ReleaseYear = year
	}
	return s.find(c, f)
}

func (s *Server) find(c echo.Context, f movie.Filter) error {
	movies, err := s.movies.Find(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

func (s *Server) addMovie(c echo.Context) error {
	var m movie.Movie
	if err := c.Bind(&m); err != nil {
		return err
	}
	added, err := s.movies.Add(c.Request().Context(), m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, added)
}

func (s *Server) updateMovie(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var m movie.Movie
	if err := c.Bind(&m); err != nil {
		return err
	}
	updated, err := s.movies.Update(c.Request().Context(), id, m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteMovie(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.movies.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// textParam returns a path parameter with percent-escapes decoded.
func textParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
