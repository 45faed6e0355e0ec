package inmemory

import (
	"context"
	"sync"
)

// InMemoryKV is a process local key/value store. Values are copied on the way
// in and out.
type InMemoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{
		items: make(map[string][]byte),
	}
}

func (s *InMemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(value), true, nil
}

func (s *InMemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.items[key] = cloneBytes(value)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	cloned := make([]byte, len(value))
	copy(cloned, value)
	return cloned
}
