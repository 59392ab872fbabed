// Package server exposes the catalog, the analyzer reports and the clock and
// race time utilities over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"

	"github.com/acs560/marquee/internal/analyzer"
	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/service"
)

const (
	defaultBodyLimit   = "1M"
	httpTimeout        = time.Minute
	httpMaxHeaderBytes = 1 << 20
)

// Config holds the dependencies and settings of a Server.
type Config struct {
	Addr      string
	BodyLimit string
	Logger    *slog.Logger
	Clock     clock.Source

	Movies   *service.Movies
	Types    *service.Types
	Analyzer *analyzer.Analyzer
	// Hub, if set, serves the /ws change feed.
	Hub *Hub
}

// Server is the marquee HTTP server.
type Server struct {
	echo     *echo.Echo
	httpd    *http.Server
	logger   *slog.Logger
	clock    clock.Source
	movies   *service.Movies
	types    *service.Types
	analyzer *analyzer.Analyzer
	hub      *Hub
}

// New creates a server. It does not start listening.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewRealSource()
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = defaultBodyLimit
	}

	e := echo.New()
	s := &Server{
		echo:     e,
		logger:   cfg.Logger.With("component", "server"),
		clock:    cfg.Clock,
		movies:   cfg.Movies,
		types:    cfg.Types,
		analyzer: cfg.Analyzer,
		hub:      cfg.Hub,
	}
	s.httpd = &http.Server{
		Addr:           cfg.Addr,
		Handler:        s,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}

	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(slogecho.New(cfg.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(metricsMiddleware)

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.GET("/ui", func(c echo.Context) error { return c.Redirect(http.StatusMovedPermanently, "/ui/") })
	e.GET("/ui/", s.handleUI)
	if s.hub != nil {
		e.GET("/ws", s.hub.handleWebSocket)
	}

	api := e.Group("/api/v1")

	movies := api.Group("/movies")
	movies.GET("", s.listMovies)
	movies.POST("", s.addMovie)
	movies.GET("/search", s.searchMovies)
	movies.GET("/id/:id", s.getMovie)
	movies.GET("/id/:id/runtime", s.getRuntime)
	movies.GET("/title/:title", s.moviesByTitle)
	movies.GET("/director/:director", s.moviesByDirector)
	movies.GET("/type/:type", s.moviesByType)
	movies.GET("/releaseYear/:year", s.moviesByYear)
	movies.GET("/director/:director/type/:type", s.moviesByDirectorType)
	movies.GET("/releaseYear/:year/type/:type", s.moviesByYearType)
	movies.GET("/director/:director/releaseYear/:year/type/:type", s.moviesByDirectorYearType)
	movies.PUT("/:id", s.updateMovie)
	movies.DELETE("/:id", s.deleteMovie)

	api.GET("/moviesAnalyzer/:report", s.getReport)

	types := api.Group("/types")
	types.GET("", s.listTypes)
	types.POST("", s.addType)
	types.GET("/:id", s.getType)
	types.GET("/type/:type", s.typeByName)
	types.PUT("/:id", s.updateType)
	types.DELETE("/:id", s.deleteType)

	api.GET("/clock", s.getClock)
	api.GET("/racetime/parse", s.parseRaceTime)
	api.GET("/racetime/render", s.renderRaceTime)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "marquee",
		"status":  "running",
		"time":    s.clock.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": versioninfo.Short(),
	})
}

// Start listens on the configured address. It blocks until the server is
// shut down and returns nil after a clean Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpd.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener serves on ln. Tests use it with an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.logger.Info("marquee server listening", "addr", ln.Addr().String())
	if err := s.httpd.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	return s.httpd.Shutdown(ctx)
}

// RunMetrics serves /metrics on ln until ctx is done.
func RunMetrics(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if logger != nil {
		logger.Info("metrics listening", "addr", ln.Addr().String())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
