package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry owns all live sessions, keyed by opaque session IDs handed to
// the client at login. Each session is an independent Lifecycle; the
// registry itself only maps IDs to sessions.
type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Lifecycle
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Lifecycle)}
}

// Open authenticates the phone number and, on success, registers a new
// session and returns its ID. Authentication failures create no session.
func (r *Registry) Open(ctx context.Context, phone string) (string, *Lifecycle, error) {
	lc := NewLifecycle(r.deps)
	if err := lc.Authenticate(ctx, phone); err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = lc
	r.mu.Unlock()
	return id, lc, nil
}

func (r *Registry) Get(id string) (*Lifecycle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lc, ok := r.sessions[id]
	return lc, ok
}

// Close logs the session out and forgets it. Unknown IDs are a no-op.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	lc, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		lc.Logout()
	}
}
