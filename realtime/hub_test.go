package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg string
	require.NoError(t, websocket.Message.Receive(conn, &msg))

	var evt Event
	require.NoError(t, json.Unmarshal([]byte(msg), &evt))
	return evt
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a := dialHub(t, srv)
	b := dialHub(t, srv)
	assert.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast("order_created", map[string]any{"orderId": "abc", "orderNumber": 1001})

	for _, conn := range []*websocket.Conn{a, b} {
		evt := readEvent(t, conn)
		assert.Equal(t, "order_created", evt.Event)
		data, ok := evt.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "abc", data["orderId"])
		assert.Equal(t, float64(1001), data["orderNumber"])
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	// Broadcasting with nobody connected is a no-op
	hub.Broadcast("order_deleted", map[string]any{"orderId": "abc"})
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	hub.queueSize = 1

	// A registered peer that nobody drains
	stuck := &wsPeer{send: make(chan []byte, 1)}
	hub.register(stuck)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Broadcast("order_updated", map[string]any{"i": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full peer queue")
	}
	assert.Len(t, stuck.send, 1)
}

func TestHubRejectsNonGet(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ws", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBroadcastUnencodablePayload(t *testing.T) {
	hub := NewHub()
	peer := &wsPeer{send: make(chan []byte, 1)}
	hub.register(peer)

	hub.Broadcast("order_updated", make(chan int))
	assert.Len(t, peer.send, 0)
}
