package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs560/marquee/internal/analyzer"
	"github.com/acs560/marquee/internal/cache"
	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/service"
	"github.com/acs560/marquee/internal/store"
)

var epoch = time.Date(2024, 1, 1, 13, 30, 15, 0, time.UTC)

func seedCatalog() []movie.Movie {
	return []movie.Movie{
		{Title: "Dick Johnson Is Dead", Director: "Kirsten Johnson", Type: movie.TypeMovie, Countries: "United States", ReleaseYear: 2020},
		{Title: "Blood & Water", Type: movie.TypeTVShow, Countries: "South Africa", ReleaseYear: 2021},
		{Title: "Sankofa", Director: "Haile Gerima", Type: movie.TypeMovie, Countries: "United States, Ghana", ReleaseYear: 1993},
		{Title: "The Starling", Director: "Theodore Melfi", Type: movie.TypeMovie, Countries: "United States", ReleaseYear: 2021},
	}
}

type testEnv struct {
	url string
	hub *Hub
	rec *journal.Recorder
}

func startTestServer(t *testing.T) testEnv {
	t.Helper()
	st := store.NewMemoryStore(seedCatalog())
	vc := clock.NewVirtualSource(epoch)
	hub := NewHub(nil)
	rec := journal.NewRecorder(nil)
	opts := service.Options{Sink: journal.Tee{rec, hub}, Clock: vc}

	srv := New(Config{
		Clock:    vc,
		Movies:   service.NewMovies(st, opts),
		Types:    service.NewTypes(st, opts),
		Analyzer: analyzer.New(st, cache.NoopStore{}, nil),
		Hub:      hub,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return testEnv{url: ts.URL, hub: hub, rec: rec}
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestServer_RootAndHealth(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodGet, env.url+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	root := decode[map[string]string](t, body)
	assert.Equal(t, "marquee", root["service"])
	assert.Equal(t, epoch.Format(time.RFC3339), root["time"])

	resp, body = do(t, http.MethodGet, env.url+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, body)["status"])
}

func TestServer_NotFound(t *testing.T) {
	env := startTestServer(t)

	resp, _ := do(t, http.MethodGet, env.url+"/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := do(t, http.MethodGet, env.url+"/api/v1/movies/id/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NotFound", decode[ErrorResponse](t, body).Error)
}

func TestServer_ListAndGetMovies(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodGet, env.url+"/api/v1/movies", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]movie.Movie](t, body), 4)

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/movies/id/3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sankofa", decode[movie.Movie](t, body).Title)

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/movies/id/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[ErrorResponse](t, body).Message, "id must be an integer")
}

func TestServer_FindMovies(t *testing.T) {
	env := startTestServer(t)

	tests := []struct {
		path string
		want []string
	}{
		{"/api/v1/movies/title/sankofa", []string{"Sankofa"}},
		{"/api/v1/movies/title/Blood%20&%20Water", []string{"Blood & Water"}},
		{"/api/v1/movies/director/Haile%20Gerima", []string{"Sankofa"}},
		{"/api/v1/movies/type/TV%20Show", []string{"Blood & Water"}},
		{"/api/v1/movies/releaseYear/2021", []string{"Blood & Water", "The Starling"}},
		{"/api/v1/movies/releaseYear/2021/type/Movie", []string{"The Starling"}},
		{"/api/v1/movies/director/Theodore%20Melfi/type/Movie", []string{"The Starling"}},
		{"/api/v1/movies/director/Theodore%20Melfi/releaseYear/2020/type/Movie", nil},
		{"/api/v1/movies/search?type=movie&releaseYear=2020", []string{"Dick Johnson Is Dead"}},
		{"/api/v1/movies/search?titleContains=JOHN", []string{"Dick Johnson Is Dead"}},
		{"/api/v1/movies/search?titleContains=star&type=movie", []string{"The Starling"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, env.url+tt.path, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var titles []string
			for _, m := range decode[[]movie.Movie](t, body) {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	resp, _ := do(t, http.MethodGet, env.url+"/api/v1/movies/search?releaseYear=soon", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_MovieCRUD(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodPost, env.url+"/api/v1/movies",
		`{"title":"Je Suis Karl","director":"Christian Schwochow","type":"Movie","countries":"Germany","releaseYear":2021,"runtime":"2:06:00"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	added := decode[movie.Movie](t, body)
	assert.Equal(t, 5, added.ID)
	require.NotNil(t, added.Runtime)
	assert.Equal(t, "2:06:00", added.Runtime.String())

	resp, body = do(t, http.MethodPost, env.url+"/api/v1/movies",
		`{"title":"je suis karl","director":"christian schwochow","type":"Movie","releaseYear":2021}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "AlreadyExists", decode[ErrorResponse](t, body).Error)

	resp, _ = do(t, http.MethodPost, env.url+"/api/v1/movies", `{"director":"Nobody","type":"Movie"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, env.url+"/api/v1/movies", `{"title":"Bad","type":"Movie","runtime":"60:67"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/movies/id/5/runtime", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rt := decode[RuntimeResponse](t, body)
	assert.Equal(t, "2:06:00", rt.Runtime)
	assert.InDelta(t, 126.0, rt.Minutes, 1e-9)

	resp, body = do(t, http.MethodPut, env.url+"/api/v1/movies/5",
		`{"title":"Je Suis Karl","director":"Christian Schwochow","type":"Movie","countries":"Germany, Czech Republic","releaseYear":2021}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Germany, Czech Republic", decode[movie.Movie](t, body).Countries)

	resp, _ = do(t, http.MethodPut, env.url+"/api/v1/movies/99", `{"title":"Ghost","type":"Movie"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, env.url+"/api/v1/movies/5", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, env.url+"/api/v1/movies/5", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	kinds := make([]journal.Kind, 0, env.rec.Len())
	for _, e := range env.rec.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []journal.Kind{journal.KindAdd, journal.KindUpdate, journal.KindDelete}, kinds)
}

func TestServer_MalformedBody(t *testing.T) {
	env := startTestServer(t)
	resp, _ := do(t, http.MethodPost, env.url+"/api/v1/movies", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_TypeCRUD(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodGet, env.url+"/api/v1/types", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []movie.Type{{ID: 1, Name: movie.TypeMovie}, {ID: 2, Name: movie.TypeTVShow}}, decode[[]movie.Type](t, body))

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/types/type/tv%20show", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[movie.Type](t, body).ID)

	resp, body = do(t, http.MethodPost, env.url+"/api/v1/types", `{"type":"Documentary"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	doc := decode[movie.Type](t, body)
	assert.Equal(t, 3, doc.ID)

	resp, _ = do(t, http.MethodPost, env.url+"/api/v1/types", `{"type":"documentary"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, http.MethodPut, env.url+"/api/v1/types/3", `{"type":"Docuseries"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Docuseries", decode[movie.Type](t, body).Name)

	resp, _ = do(t, http.MethodDelete, env.url+"/api/v1/types/3", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, env.url+"/api/v1/types/3", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Reports(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodGet, env.url+"/api/v1/moviesAnalyzer/countMoviesVsTVShows", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, analyzer.TypeCounts{Movies: 3, TVShows: 1}.Text(), string(body))

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/moviesAnalyzer/countMoviesVsTVShows?format=json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, analyzer.TypeCounts{Movies: 3, TVShows: 1}, decode[analyzer.TypeCounts](t, body))

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/moviesAnalyzer/countries?format=json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	countries := decode[[]analyzer.CountryCount](t, body)
	require.NotEmpty(t, countries)
	assert.Equal(t, analyzer.CountryCount{Country: "United States", Count: 3}, countries[0])

	resp, _ = do(t, http.MethodGet, env.url+"/api/v1/moviesAnalyzer/avgMovies", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, env.url+"/api/v1/moviesAnalyzer/bogus", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, env.url+"/api/v1/moviesAnalyzer/avgMovies?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Clock(t *testing.T) {
	env := startTestServer(t)

	tests := []struct {
		query  string
		code   int
		want24 string
		want12 string
	}{
		{"h=23&m=59&s=59&advance=1", http.StatusOK, "00:00:00", "12:00:00 AM"},
		{"h=9&m=10", http.StatusOK, "09:10:00", "9:10:00 AM"},
		{"", http.StatusOK, "13:30:15", "1:30:15 PM"},
		{"advance=45", http.StatusOK, "13:31:00", "1:31:00 PM"},
		{"h=24", http.StatusBadRequest, "", ""},
		{"h=ten", http.StatusBadRequest, "", ""},
		{"advance=-1", http.StatusBadRequest, "", ""},
		{"advance=999999999", http.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, env.url+"/api/v1/clock?"+tt.query, "")
			require.Equal(t, tt.code, resp.StatusCode, string(body))
			if tt.code != http.StatusOK {
				return
			}
			got := decode[ClockResponse](t, body)
			assert.Equal(t, tt.want24, got.Format24)
			assert.Equal(t, tt.want12, got.Format12)
		})
	}
}

func TestServer_RaceTime(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodGet, env.url+"/api/v1/racetime/parse?time=1:25:37", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[RaceTimeResponse](t, body)
	assert.Equal(t, "1:25:37", got.Time)
	assert.Equal(t, 1, got.Hours)
	assert.Equal(t, 25, got.Mins)
	assert.Equal(t, 37, got.Seconds)

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/racetime/render?minutes=85.5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1:25:30", decode[RaceTimeResponse](t, body).Time)

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/racetime/parse?time=60:67", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidFormat", decode[ErrorResponse](t, body).Error)

	resp, body = do(t, http.MethodGet, env.url+"/api/v1/racetime/render?minutes=-3", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidArgument", decode[ErrorResponse](t, body).Error)

	resp, _ = do(t, http.MethodGet, env.url+"/api/v1/racetime/render?minutes=lots", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UI(t *testing.T) {
	env := startTestServer(t)

	resp, body := do(t, http.MethodGet, env.url+"/ui/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "/api/v1")
}

func TestServer_WebSocketFeed(t *testing.T) {
	env := startTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(env.url, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	resp, body := do(t, http.MethodPost, env.url+"/api/v1/types", `{"type":"Stand-Up"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	ev := decode[journal.Event](t, msg)
	assert.Equal(t, journal.KindAdd, ev.Kind)
	assert.Equal(t, journal.EntityType, ev.Entity)
	require.NotNil(t, ev.Type)
	assert.Equal(t, "Stand-Up", ev.Type.Name)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	env := startTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(env.url, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	env.hub.Close()
	assert.Zero(t, env.hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "err = %v", err)

	// Broadcasting after close is a no-op.
	assert.NoError(t, env.hub.Record(journal.TypeEvent(epoch, journal.KindAdd, movie.Type{ID: 9, Name: "Late"})))
}

func TestHub_RecordDoesNotWaitForSlowClients(t *testing.T) {
	hub := NewHub(nil)
	// No writer goroutine drains this client, like a peer that stopped reading.
	stalled := &hubClient{send: make(chan []byte, 1)}
	hub.clients[stalled] = struct{}{}
	wsClients.Inc()

	ev := journal.TypeEvent(epoch, journal.KindAdd, movie.Type{ID: 1, Name: "Docuseries"})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			assert.NoError(t, hub.Record(ev))
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a client that is not reading")
	}

	assert.Zero(t, hub.ClientCount(), "a client with a full queue is dropped")
	assert.Equal(t, websocket.CloseTryAgainLater, stalled.closeCode)
	_, open := <-stalled.send
	assert.True(t, open, "the queued event stays readable")
	_, open = <-stalled.send
	assert.False(t, open, "the queue is closed after the drop")
}

func TestServer_StartAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	st := store.NewMemoryStore(nil)
	srv := New(Config{
		Movies:   service.NewMovies(st, service.Options{}),
		Types:    service.NewTypes(st, service.Options{}),
		Analyzer: analyzer.New(st, cache.NoopStore{}, nil),
	})

	done := make(chan error, 1)
	go func() { done <- srv.StartOnListener(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestRunMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunMetrics(ctx, ln, nil) }()

	env := startTestServer(t)
	do(t, http.MethodGet, env.url+"/health", "")

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ = io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, string(body), "marquee_http_requests_total")

	cancel()
	assert.NoError(t, <-done)
}
