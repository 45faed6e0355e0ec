package lists

import (
	"strings"
	"sync"
)

// Registry hands out one store per user, so every consumer acting for the
// same user shares a single authoritative collection.
type Registry struct {
	factory func(userID string) *Store

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(factory func(userID string) *Store) *Registry {
	return &Registry{
		factory: factory,
		stores:  make(map[string]*Store),
	}
}

func (r *Registry) ForUser(userID string) *Store {
	userID = strings.TrimSpace(userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[userID]; ok {
		return store
	}
	store := r.factory(userID)
	r.stores[userID] = store
	return store
}

// Forget drops the store of a user whose local data was cleared, so the next
// ForUser builds a fresh one.
func (r *Registry) Forget(userID string) {
	r.mu.Lock()
	delete(r.stores, strings.TrimSpace(userID))
	r.mu.Unlock()
}
