package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/racetime"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status and a short error code.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, http.StatusText(he.Code)
	case errors.Is(err, racetime.ErrInvalidFormat):
		return http.StatusBadRequest, "InvalidFormat"
	case errors.Is(err, racetime.ErrInvalidArgument), errors.Is(err, clock.ErrInvalidArgument):
		return http.StatusBadRequest, "InvalidArgument"
	case errors.Is(err, movie.ErrInvalid):
		return http.StatusBadRequest, "InvalidArgument"
	case errors.Is(err, movie.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, movie.ErrAlreadyExists):
		return http.StatusConflict, "AlreadyExists"
	}
	return http.StatusInternalServerError, "Internal"
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, kind := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		s.logger.Warn("marquee-http-internal-error", "err", err, "path", c.Path())
		msg = "internal server error"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: kind, Message: msg})
	}
	if err != nil {
		s.logger.Error("writing error response", "err", err)
	}
}

func badRequest(format string, args ...any) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}
