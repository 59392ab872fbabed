package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/racetime"
)

// maxAdvance bounds /clock?advance= to one week of seconds.
const maxAdvance = 7 * 24 * 60 * 60

// ClockResponse is a wall clock reading in both formats.
type ClockResponse struct {
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
	Seconds  int    `json:"seconds"`
	Format24 string `json:"format24"`
	Format12 string `json:"format12"`
}

// getClock builds a wall clock from h, m and s, advances it by advance
// seconds and reports both formats. Without h, m and s it starts from the
// server's current time of day.
func (s *Server) getClock(c echo.Context) error {
	h, m, sec := c.QueryParam("h"), c.QueryParam("m"), c.QueryParam("s")

	var fields [3]int
	if h == "" && m == "" && sec == "" {
		now := s.clock.Now()
		fields = [3]int{now.Hour(), now.Minute(), now.Second()}
	} else {
		for i, raw := range []string{h, m, sec} {
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return badRequest("clock fields must be integers, got %q", raw)
			}
			fields[i] = n
		}
	}

	wc, err := clock.NewWallClock(fields[0], fields[1], fields[2])
	if err != nil {
		return err
	}

	if raw := c.QueryParam("advance"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxAdvance {
			return badRequest("advance must be an integer between 0 and %d, got %q", maxAdvance, raw)
		}
		wc.AddSeconds(n)
	}

	return c.JSON(http.StatusOK, ClockResponse{
		Hours:    wc.Hours(),
		Minutes:  wc.Minutes(),
		Seconds:  wc.Seconds(),
		Format24: wc.Format24(),
		Format12: wc.Format12(),
	})
}

// RaceTimeResponse describes a parsed or rendered race time.
type RaceTimeResponse struct {
	Time    string  `json:"time"`
	Minutes float64 `json:"minutes"`
	Hours   int     `json:"hours"`
	Mins    int     `json:"mins"`
	Seconds int     `json:"seconds"`
}

func raceTimeResponse(t racetime.Time) RaceTimeResponse {
	return RaceTimeResponse{
		Time:    t.String(),
		Minutes: t.Value(),
		Hours:   t.Hours(),
		Mins:    t.Minutes(),
		Seconds: t.Seconds(),
	}
}

func (s *Server) parseRaceTime(c echo.Context) error {
	t, err := racetime.Parse(c.QueryParam("time"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, raceTimeResponse(t))
}

func (s *Server) renderRaceTime(c echo.Context) error {
	raw := c.QueryParam("minutes")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return badRequest("minutes must be a number, got %q", raw)
	}
	t, err := racetime.FromMinutes(v)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, raceTimeResponse(t))
}
