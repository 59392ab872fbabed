package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/acs560/marquee/internal/journal"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a client may lag behind before it is
	// dropped.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	// The UI is served from the same origin; other tools connect directly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans catalog change events out to websocket clients. It is a
// journal.Sink, so services publish to it alongside the file journal.
// Each client has its own writer goroutine, so Record never waits on a
// socket.
type Hub struct {
	mu      sync.Mutex
	clients map[*hubClient]struct{}
	closed  bool
	logger  *slog.Logger
}

var _ journal.Sink = (*Hub)(nil)

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
	// Set before send is closed; read by the writer afterwards.
	closeCode int
	closeText string
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*hubClient]struct{}),
		logger:  logger.With("component", "websocket"),
	}
}

func (h *Hub) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn("websocket upgrade failed", "err", err)
		return nil
	}
	// Clear the deadline left by the http.Server read timeout.
	_ = conn.SetReadDeadline(time.Time{})

	cl := &hubClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return nil
	}
	h.clients[cl] = struct{}{}
	wsClients.Inc()
	h.mu.Unlock()

	go h.writeLoop(cl)
	go h.readLoop(cl)
	return nil
}

// readLoop discards client messages and unregisters the client on disconnect.
func (h *Hub) readLoop(cl *hubClient) {
	defer h.remove(cl, websocket.CloseNormalClosure, "")
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop is the only writer on cl.conn. It drains cl.send and sends a
// close frame once the hub closes the channel.
func (h *Hub) writeLoop(cl *hubClient) {
	defer cl.conn.Close()
	for data := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("dropping websocket client", "err", err)
			h.remove(cl, websocket.CloseAbnormalClosure, "")
			return
		}
	}
	if cl.closeCode != websocket.CloseAbnormalClosure {
		_ = cl.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(cl.closeCode, cl.closeText),
			time.Now().Add(writeWait))
	}
}

func (h *Hub) remove(cl *hubClient, code int, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(cl, code, text)
}

// dropLocked must be called with h.mu held.
func (h *Hub) dropLocked(cl *hubClient, code int, text string) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	wsClients.Dec()
	cl.closeCode, cl.closeText = code, text
	close(cl.send)
}

// Record queues e for every connected client. A client whose queue is full
// is dropped instead of holding up the caller.
func (h *Hub) Record(e journal.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	catalogChanges.WithLabelValues(string(e.Entity), string(e.Kind)).Inc()

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			h.logger.Warn("dropping slow websocket client")
			h.dropLocked(cl, websocket.CloseTryAgainLater, "client too slow")
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.dropLocked(cl, websocket.CloseGoingAway, "server shutting down")
	}
}
