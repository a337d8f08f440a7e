package auth

import "sync"

// Registry is the process-wide set of currently valid session
// credentials. A credential is valid if and only if it is a member of
// the registry; the identity embedded in a credential must never be
// trusted without that membership check. The registry is not
// persisted, so a restart invalidates every outstanding credential.
type Registry struct {
	mu     sync.RWMutex
	active map[string]struct{}
}

// NewRegistry creates an empty credential registry.
func NewRegistry() *Registry {
	return &Registry{
		active: make(map[string]struct{}),
	}
}

// Add marks a credential as valid.
func (r *Registry) Add(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[token] = struct{}{}
}

// Contains reports whether a credential is currently valid.
func (r *Registry) Contains(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.active[token]
	return ok
}

// Len returns the number of active credentials.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}
