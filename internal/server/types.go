package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acs560/marquee/internal/movie"
)

func (s *Server) listTypes(c echo.Context) error {
	types, err := s.types.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

func (s *Server) getType(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	t, err := s.types.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) typeByName(c echo.Context) error {
	t, err := s.types.ByName(c.Request().Context(), textParam(c, "type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) addType(c echo.Context) error {
	var t movie.Type
	if err := c.Bind(&t); err != nil {
		return err
	}
	added, err := s.types.Add(c.Request().Context(), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, added)
}

func (s *Server) updateType(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var t movie.Type
	if err := c.Bind(&t); err != nil {
		return err
	}
	updated, err := s.types.Update(c.Request().Context(), id, t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteType(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.types.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
