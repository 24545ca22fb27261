package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"parkezy/internal/engine"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps lifecycle errors to transport status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidDuration), errors.Is(err, engine.ErrInvalidCost):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrSessionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrAlreadyStarted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrNoPendingSession), errors.Is(err, engine.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
