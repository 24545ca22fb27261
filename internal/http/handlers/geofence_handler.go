package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"parkezy/internal/engine"
	"parkezy/internal/geofence"
)

// GeofenceEventsHandler receives entry/exit callbacks from the geofence
// service. Events are advisory: unknown users and mismatched spots are
// acknowledged and dropped, never an error back to the geofence service.
type GeofenceEventsHandler struct {
	engines *engine.Registry
	logger  *zap.Logger
}

// NewGeofenceEventsHandler builds handler.
func NewGeofenceEventsHandler(engines *engine.Registry, logger *zap.Logger) *GeofenceEventsHandler {
	return &GeofenceEventsHandler{engines: engines, logger: logger}
}

// HandleEvent handles POST /internal/geofence/events.
func (h *GeofenceEventsHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event geofence.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if event.SpotID == "" || (event.Type != engine.GeofenceEntered && event.Type != engine.GeofenceExited) {
		writeError(w, http.StatusBadRequest, "spot_id and type are required")
		return
	}

	eng, ok := h.engines.Lookup(event.UserID)
	if !ok {
		h.logger.Debug("geofence event for user with no engine",
			zap.Int64("user_id", event.UserID), zap.String("spot_id", event.SpotID))
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	eng.HandleGeofenceEvent(event.SpotID, event.Type)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
