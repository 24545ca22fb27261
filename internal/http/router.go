package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	CreateBooking  http.HandlerFunc
	StartSession   http.HandlerFunc
	EndSession     http.HandlerFunc
	ExtendSession  http.HandlerFunc
	CancelSession  http.HandlerFunc
	CurrentSession http.HandlerFunc
	SessionHistory http.HandlerFunc
	StatusSnapshot http.HandlerFunc
	StatusWS       http.HandlerFunc
	GeofenceEvents http.HandlerFunc
	Health         http.HandlerFunc

	// Auth wraps the user-facing booking routes.
	Auth func(http.Handler) http.Handler
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	authed := func(expected string, handler http.HandlerFunc) http.Handler {
		var h http.Handler = method(expected, handler)
		if routes.Auth != nil {
			h = routes.Auth(h)
		}
		return h
	}

	if routes.CreateBooking != nil {
		mux.Handle("/bookings", authed(http.MethodPost, routes.CreateBooking))
	}
	if routes.StartSession != nil {
		mux.Handle("/bookings/start", authed(http.MethodPost, routes.StartSession))
	}
	if routes.EndSession != nil {
		mux.Handle("/bookings/end", authed(http.MethodPost, routes.EndSession))
	}
	if routes.ExtendSession != nil {
		mux.Handle("/bookings/extend", authed(http.MethodPost, routes.ExtendSession))
	}
	if routes.CancelSession != nil {
		mux.Handle("/bookings/cancel", authed(http.MethodPost, routes.CancelSession))
	}
	if routes.CurrentSession != nil {
		mux.Handle("/bookings/current", authed(http.MethodGet, routes.CurrentSession))
	}
	if routes.SessionHistory != nil {
		mux.Handle("/bookings/history", authed(http.MethodGet, routes.SessionHistory))
	}
	if routes.StatusSnapshot != nil {
		mux.Handle("/bookings/status", authed(http.MethodGet, routes.StatusSnapshot))
	}
	if routes.StatusWS != nil {
		mux.Handle("/ws/status", authed(http.MethodGet, routes.StatusWS))
	}
	if routes.GeofenceEvents != nil {
		mux.Handle("/internal/geofence/events", method(http.MethodPost, routes.GeofenceEvents))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
