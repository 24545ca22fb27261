package livestatus

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans live-status frames out to websocket subscribers, grouped by user.
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64]map[*websocket.Conn]struct{}
	logger *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Add registers a subscriber connection for the user.
func (h *Hub) Add(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[userID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		h.conns[userID] = set
	}
	set[conn] = struct{}{}
}

// Remove drops a subscriber connection.
func (h *Hub) Remove(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Broadcast writes the frame to every subscriber of the user. Dead
// connections are closed and dropped.
func (h *Hub) Broadcast(userID int64, frame []byte) {
	h.mu.RLock()
	var dead []*websocket.Conn
	for conn := range h.conns[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.logger.Debug("dropping dead status subscriber", zap.Error(err))
			dead = append(dead, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range dead {
		conn.Close()
		h.Remove(userID, conn)
	}
}
