package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// writeTimeout bounds one broadcast write to one client.
const writeTimeout = 3 * time.Second

// Event is one editor notification pushed to every connected client.
type Event struct {
	// Type is the event kind: "zone_added", "zone_modified", "zone_deleted",
	// "config_changed", "saved".
	Type string `json:"type"`
	// ZoneID names the affected zone, empty for dataset-wide events.
	ZoneID string `json:"zone_id,omitempty"`
	// Payload carries the event body, shape depending on Type.
	Payload any `json:"payload,omitempty"`
}

// Hub fans editor events out to the connected websocket clients. Clients that
// fail a write are dropped.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
//
// Precondition: logger must be non-nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Add registers a client connection.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("editor client connected", zap.Int("clients", count))
}

// Remove unregisters a client connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("editor client disconnected", zap.Int("clients", count))
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to every client. A client whose write fails is
// closed and dropped.
func (h *Hub) Broadcast(ev Event) {
	message, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshalling event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	for conn := range h.clients {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			delete(h.clients, conn)
			h.logger.Debug("dropped unresponsive client", zap.Error(err))
		}
	}
	h.mu.Unlock()
}
