package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"parkezy/internal/http/middleware"
	"parkezy/internal/livestatus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewStatusWSHandler returns GET /ws/status handler streaming live snapshots.
func NewStatusWSHandler(hub *livestatus.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		hub.Add(userID, conn)
		logger.Debug("status subscriber connected", zap.Int64("user_id", userID))

		// Drain the connection; exit on close.
		go func() {
			defer func() {
				hub.Remove(userID, conn)
				conn.Close()
				logger.Debug("status subscriber disconnected", zap.Int64("user_id", userID))
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
