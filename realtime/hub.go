// Package realtime delivers order and settings events to connected observers.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

const (
	defaultQueueSize = 32
	writeTimeout     = 10 * time.Second
)

// Event is the frame sent to observers
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encodeEvent(event string, payload any) ([]byte, error) {
	return json.Marshal(Event{Event: event, Data: payload})
}

type wsPeer struct {
	conn   *websocket.Conn
	remote string
	send   chan []byte
}

// Hub fans events out to websocket peers. A slow peer loses frames instead of stalling the sender.
type Hub struct {
	mu        sync.Mutex
	peers     map[*wsPeer]struct{}
	queueSize int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		peers:     make(map[*wsPeer]struct{}),
		queueSize: defaultQueueSize,
	}
}

// Count returns the number of connected peers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Broadcast queues the event for every connected peer without blocking
func (h *Hub) Broadcast(event string, payload any) {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("[WARNING] realtime: failed to encode %s event: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		select {
		case p.send <- frame:
		default:
			log.Printf("[WARNING] realtime: dropping %s event for slow peer %s", event, p.remote)
		}
	}
}

func (h *Hub) register(p *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
}

func (h *Hub) unregister(p *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.send)
	}
}

// ServeHTTP upgrades the request and streams events until the peer leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	server := websocket.Server{
		// Display boards connect from any origin, including file:// pages
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler:   h.serve,
	}
	server.ServeHTTP(w, r)
}

func (h *Hub) serve(conn *websocket.Conn) {
	defer conn.Close()

	p := &wsPeer{conn: conn, send: make(chan []byte, h.queueSize)}
	if req := conn.Request(); req != nil {
		p.remote = req.RemoteAddr
	}
	h.register(p)
	defer h.unregister(p)

	// Inbound frames are ignored; the read loop only detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var msg string
		for {
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case frame, ok := <-p.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := websocket.Message.Send(conn, string(frame)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
