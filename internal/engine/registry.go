package engine

import "sync"

// Registry hands out one engine per user, created on demand with shared
// collaborators. Explicit ownership instead of a process-wide singleton.
type Registry struct {
	mu      sync.Mutex
	engines map[int64]*Engine
	deps    Deps
	opts    Options
}

// NewRegistry returns an empty registry.
func NewRegistry(deps Deps, opts Options) *Registry {
	return &Registry{
		engines: make(map[int64]*Engine),
		deps:    deps,
		opts:    opts,
	}
}

// ForUser returns the user's engine, creating it on first use.
func (r *Registry) ForUser(userID int64) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	eng, ok := r.engines[userID]
	if !ok {
		eng = NewEngine(userID, r.deps, r.opts)
		r.engines[userID] = eng
	}
	return eng
}

// Lookup returns an existing engine without creating one. Geofence callbacks
// use it so stray events do not materialize engines.
func (r *Registry) Lookup(userID int64) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eng, ok := r.engines[userID]
	return eng, ok
}
