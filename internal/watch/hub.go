// Package watch streams engine events to read-only WebSocket viewers.
package watch

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Message is the envelope for everything sent to viewers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Conn wraps a WebSocket connection with its viewer and outgoing queue.
type Conn struct {
	conn   *websocket.Conn
	viewer string
	send   chan []byte
}

// Hub fans messages out to every connected viewer and remembers the last
// board so late joiners start from the current position.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Conn]bool
	snapshot    []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{connections: make(map[*Conn]bool)}
}

// Register adds a connection and queues the current snapshot for it.
func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	if h.snapshot != nil {
		select {
		case c.send <- h.snapshot:
		default:
		}
	}
}

// Unregister removes a connection from the hub and closes its queue.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	close(c.send)
}

// Broadcast sends msg to every viewer without blocking. Viewers whose
// queue is full miss the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal watch message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if msg.Type != EventSolved {
		h.snapshot = data
	}
	for c := range h.connections {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("viewer", c.viewer).Str("type", msg.Type).Msg("Dropping watch message, buffer full")
		}
	}
}

// ConnectionCount returns the number of connected viewers.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
