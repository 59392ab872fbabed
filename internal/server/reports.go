package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acs560/marquee/internal/analyzer"
)

// getReport serves one analyzer report, as the fixed-width text table by
// default or as JSON with ?format=json.
func (s *Server) getReport(c echo.Context) error {
	format := analyzer.FormatText
	if f := c.QueryParam("format"); f != "" {
		format = analyzer.Format(f)
	}

	body, err := s.analyzer.Report(c.Request().Context(), c.Param("report"), format)
	if err != nil {
		return err
	}
	if format == analyzer.FormatJSON {
		return c.JSONBlob(http.StatusOK, []byte(body))
	}
	return c.String(http.StatusOK, body)
}
