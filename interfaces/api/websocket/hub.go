package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"smart-attendance/pkg/logger"
)

// Event is one dashboard push message. Live dashboards use these to refresh
// the day view without polling; the database stays the source of truth.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

const (
	EventSessionSaved    = "session_saved"
	EventOverrideApplied = "override_applied"
	EventStudentChanged  = "student_changed"
)

type client struct {
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan []byte
}

// Hub fans events out to every connected dashboard client. Writes go through
// a per-client channel so a slow reader never blocks a broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
	}
}

func (h *Hub) register(conn *websocket.Conn, userID uuid.UUID) *client {
	cl := &client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 16),
	}

	h.mu.Lock()
	h.clients[conn] = cl
	count := len(h.clients)
	h.mu.Unlock()

	go cl.writeLoop()

	logger.WebSocket("client_registered", "Client connected", map[string]interface{}{
		"user_id": userID.String(),
		"clients": count,
	})
	return cl
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	cl, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(cl.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		logger.WebSocket("client_unregistered", "Client disconnected", map[string]interface{}{
			"user_id": cl.userID.String(),
			"clients": count,
		})
	}
}

// Broadcast sends an event to every connected client. Clients whose send
// buffer is full are skipped; they catch up on their next fetch.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		logger.Error(logger.CategoryWebSocket, "broadcast_marshal", "Failed to marshal event", err, map[string]interface{}{"event": eventType})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *client) writeLoop() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
