package handlers

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkezy/internal/http/middleware"
	"parkezy/internal/livestatus"
)

// NewStatusSnapshotHandler returns GET /bookings/status handler serving the
// last committed live-status snapshot for polling clients.
func NewStatusSnapshotHandler(publisher *livestatus.Publisher, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}

		snapshot, err := publisher.LatestSnapshot(r.Context(), userID)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				writeError(w, http.StatusNotFound, "no live status available")
				return
			}
			logger.Warn("snapshot lookup failed", zap.Int64("user_id", userID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load status")
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}
