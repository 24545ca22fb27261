package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"parkezy/internal/engine"
	"parkezy/internal/http/middleware"
	"parkezy/internal/models"
	"parkezy/internal/pricing"
	"parkezy/internal/repository"
)

// SpotProvider supplies read-only spot descriptors.
type SpotProvider interface {
	SpotByID(ctx context.Context, spotID string) (*models.Spot, error)
}

// BookingsHandler exposes the lifecycle engine over HTTP.
type BookingsHandler struct {
	engines *engine.Registry
	spots   SpotProvider
	logger  *zap.Logger
}

// NewBookingsHandler builds handler set.
func NewBookingsHandler(engines *engine.Registry, spots SpotProvider, logger *zap.Logger) *BookingsHandler {
	return &BookingsHandler{
		engines: engines,
		spots:   spots,
		logger:  logger,
	}
}

type createBookingRequest struct {
	SpotID         string  `json:"spot_id"`
	DurationHours  float64 `json:"duration_hours"`
	TotalCostPaise int64   `json:"total_cost_paise"`
}

type extendSessionRequest struct {
	AdditionalHours float64 `json:"additional_hours"`
}

// HandleCreate handles POST /bookings.
func (h *BookingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SpotID == "" {
		writeError(w, http.StatusBadRequest, "spot_id is required")
		return
	}
	if req.DurationHours <= 0 {
		writeError(w, http.StatusBadRequest, "duration_hours must be positive")
		return
	}
	if req.TotalCostPaise < 0 {
		writeError(w, http.StatusBadRequest, "total_cost_paise must not be negative")
		return
	}

	spot, err := h.spots.SpotByID(r.Context(), req.SpotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			writeError(w, http.StatusNotFound, "spot not found")
			return
		}
		h.logger.Error("spot lookup failed", zap.String("spot_id", req.SpotID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load spot")
		return
	}

	duration := time.Duration(req.DurationHours * float64(time.Hour))
	totalCost := models.Amount(req.TotalCostPaise)
	if totalCost == 0 {
		totalCost = pricing.ExtensionCost(spot.HourlyRate, duration, pricing.TaxRateBps)
	}

	session, err := h.engines.ForUser(userID).CreateBooking(r.Context(), *spot, duration, totalCost)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// HandleStart handles POST /bookings/start.
func (h *BookingsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(eng *engine.Engine) (*models.Session, error) {
		return eng.StartSession(r.Context())
	})
}

// HandleEnd handles POST /bookings/end.
func (h *BookingsHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(eng *engine.Engine) (*models.Session, error) {
		return eng.EndSession(r.Context())
	})
}

// HandleCancel handles POST /bookings/cancel.
func (h *BookingsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(eng *engine.Engine) (*models.Session, error) {
		return eng.Cancel(r.Context())
	})
}

// HandleExtend handles POST /bookings/extend.
func (h *BookingsHandler) HandleExtend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req extendSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	additional := time.Duration(req.AdditionalHours * float64(time.Hour))

	session, err := h.engines.ForUser(userID).ExtendSession(r.Context(), additional)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleCurrent handles GET /bookings/current.
func (h *BookingsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	session, ok := h.engines.ForUser(userID).CurrentSession()
	if !ok {
		writeError(w, http.StatusNotFound, "no session in progress")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleHistory handles GET /bookings/history.
func (h *BookingsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": h.engines.ForUser(userID).History(),
	})
}

func (h *BookingsHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(*engine.Engine) (*models.Session, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	session, err := op(h.engines.ForUser(userID))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
