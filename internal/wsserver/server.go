// server.go: broadcasts debug telemetry and seismic events to dashboard
// clients over WebSocket using a per-client read/write pump pair.
package wsserver

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/burakkonte/sinyalist/internal/logging"
	"github.com/burakkonte/sinyalist/internal/seismic"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// frame is the wire shape broadcast to dashboard clients. Exactly one of
// Debug or Event is set per frame.
type frame struct {
	Kind  string                  `json:"kind"`
	Debug *seismic.DebugTelemetry `json:"debug,omitempty"`
	Event *seismic.SeismicEvent   `json:"event,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a broadcast server: it accepts WebSocket connections on /ws and
// fans out every telemetry frame and event to all of them. A client whose
// send buffer is full misses that frame rather than backing up the
// broadcaster; a disconnected client is removed when its read loop ends.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	server  *http.Server
}

// NewHub builds a Hub listening at addr. Call Serve to start accepting
// connections.
func NewHub(addr string) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	h.server = &http.Server{Addr: addr, Handler: mux}
	return h
}

// Serve starts accepting connections and blocks until the listener fails
// or is closed.
func (h *Hub) Serve(ln net.Listener) error {
	return h.server.Serve(ln)
}

// Close shuts down the HTTP server and disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	for c := range h.clients {
		close(c.send)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	return h.server.Close()
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Structured().Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// BroadcastDebug fans a debug telemetry sample out to every connected
// client, silently dropping it for any client whose send buffer is full.
func (h *Hub) BroadcastDebug(t seismic.DebugTelemetry) {
	h.broadcast(frame{Kind: "debug", Debug: &t})
}

// BroadcastEvent fans a seismic event out to every connected client.
func (h *Hub) BroadcastEvent(e seismic.SeismicEvent) {
	h.broadcast(frame{Kind: "event", Event: &e})
}

func (h *Hub) broadcast(f frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		logging.Structured().Error("marshal websocket frame failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer h.removeClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Structured().Debug("websocket read error", "error", err)
			}
			return
		}
	}
}
