package socket

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the live websocket connection per user. One connection per user:
// a new registration replaces the old one.
type Hub struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	clients map[int64]*websocket.Conn
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With(slog.String("component", "socket_hub")),
		clients: make(map[int64]*websocket.Conn),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	h.logger.Debug("client registered", slog.Int64("user_id", userID))
}

func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Only drop the mapping if it still points at this connection; a reconnect
	// may already have replaced it.
	if current, ok := h.clients[userID]; ok && current == conn {
		delete(h.clients, userID)
		h.logger.Debug("client unregistered", slog.Int64("user_id", userID))
	}
}

// Send delivers a payload to the user's connection if there is one. An offline
// recipient is not an error.
func (h *Hub) Send(userID int64, payload []byte) error {
	h.mu.RLock()
	conn, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
