package wsserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/burakkonte/sinyalist/internal/seismic"
)

func newTestServerAndHub(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	h := &Hub{clients: make(map[*client]struct{})}
	srv := httptest.NewServer(http.HandlerFunc(h.handleWS))
	t.Cleanup(srv.Close)
	return srv, h
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastEventReachesConnectedClient(t *testing.T) {
	t.Parallel()

	srv, h := newTestServerAndHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, 5*time.Millisecond)

	want := seismic.SeismicEvent{Level: seismic.AlertModerate, PeakG: 0.3}
	h.BroadcastEvent(want)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got frame
	require.NoError(t, json.Unmarshal(msg, &got))
	require.NotNil(t, got.Event)
	require.Equal(t, "event", got.Kind)
	require.Equal(t, want.Level, got.Event.Level)
	require.InDelta(t, want.PeakG, got.Event.PeakG, 1e-9)
}

func TestHub_BroadcastDebugReachesConnectedClient(t *testing.T) {
	t.Parallel()

	srv, h := newTestServerAndHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, 5*time.Millisecond)

	h.BroadcastDebug(seismic.DebugTelemetry{Ratio: 2.5})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got frame
	require.NoError(t, json.Unmarshal(msg, &got))
	require.NotNil(t, got.Debug)
	require.Equal(t, "debug", got.Kind)
	require.InDelta(t, 2.5, got.Debug.Ratio, 1e-9)
}

func TestHub_BroadcastSkipsClientWithFullSendBuffer(t *testing.T) {
	t.Parallel()

	h := &Hub{clients: make(map[*client]struct{})}
	c := &client{send: make(chan []byte, 1)}
	h.clients[c] = struct{}{}

	c.send <- []byte("already queued")
	h.BroadcastEvent(seismic.SeismicEvent{})

	require.Len(t, c.send, 1, "broadcast must drop rather than block on a full client buffer")
}
