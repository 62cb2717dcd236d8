package devserver

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"waveline/pkg/logger"
	"waveline/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 32
)

// subscriber is one WebSocket client on either channel type. Payloads are
// pre-marshaled JSON; a full send buffer drops the client rather than
// blocking the broadcaster.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	return &subscriber{conn: conn, send: make(chan []byte, clientSendSize)}
}

// writePump drains the send channel onto the socket
func (c *subscriber) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub fans events out to notification subscribers (per user) and stream
// rooms (per stream).
type Hub struct {
	mu            sync.Mutex
	notifications map[string]map[*subscriber]bool // user id -> clients
	rooms         map[string]map[*subscriber]bool // stream id -> clients
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{
		notifications: make(map[string]map[*subscriber]bool),
		rooms:         make(map[string]map[*subscriber]bool),
	}
}

// Subscribe registers a notifications client for a user
func (h *Hub) Subscribe(userID string, c *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.notifications[userID] == nil {
		h.notifications[userID] = make(map[*subscriber]bool)
	}
	h.notifications[userID][c] = true
}

// Unsubscribe removes a notifications client
func (h *Hub) Unsubscribe(userID string, c *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients := h.notifications[userID]; clients[c] {
		delete(clients, c)
		close(c.send)
		if len(clients) == 0 {
			delete(h.notifications, userID)
		}
	}
}

// Notify pushes a notification to every session the user has open
func (h *Hub) Notify(userID, kind, actor, target, message string) {
	note := models.Notification{
		ID:        uuid.New().String(),
		Type:      kind,
		Actor:     actor,
		Target:    target,
		Message:   message,
		CreatedAt: time.Now(),
	}
	payload, err := marshalEvent(note)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.notifications[userID] {
		h.sendLocked(h.notifications[userID], c, payload)
	}
	logger.WebSocket("notifications", kind, userID)
}

// JoinStream adds a viewer to a stream room and returns the room size
func (h *Hub) JoinStream(streamID string, c *subscriber) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[streamID] == nil {
		h.rooms[streamID] = make(map[*subscriber]bool)
	}
	h.rooms[streamID][c] = true
	return len(h.rooms[streamID])
}

// LeaveStream removes a viewer and returns the remaining room size
func (h *Hub) LeaveStream(streamID string, c *subscriber) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.rooms[streamID]
	if clients[c] {
		delete(clients, c)
		close(c.send)
	}
	remaining := len(clients)
	if remaining == 0 {
		delete(h.rooms, streamID)
	}
	return remaining
}

// BroadcastStream sends an event to everyone watching a stream
func (h *Hub) BroadcastStream(streamID string, event models.StreamEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := marshalEvent(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[streamID] {
		h.sendLocked(h.rooms[streamID], c, payload)
	}
}

// sendLocked delivers a payload or drops a client that cannot keep up
func (h *Hub) sendLocked(clients map[*subscriber]bool, c *subscriber, payload []byte) {
	select {
	case c.send <- payload:
	default:
		delete(clients, c)
		close(c.send)
	}
}
