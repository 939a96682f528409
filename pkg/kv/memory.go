package kv

import (
	"context"
	"sync"
)

// MemoryStore holds serialized snapshots in memory. Used by tests and as
// the fallback when the configured backend cannot be opened: the session
// stays correct, it just does not survive a restart.
type MemoryStore struct {
	mtx     sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, key string, value any) {
	payload, err := encode(value)
	if err != nil {
		return
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.entries[key] = payload
}

func (s *MemoryStore) Load(ctx context.Context, key string, dest any) bool {
	s.mtx.RLock()
	payload, ok := s.entries[key]
	s.mtx.RUnlock()
	if !ok {
		return false
	}
	return decode(payload, dest) == nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.entries, key)
}

func (s *MemoryStore) Close() error {
	return nil
}

// Corrupt overwrites the raw payload under key, bypassing the JSON codec.
// Test hook for exercising malformed-snapshot recovery.
func (s *MemoryStore) Corrupt(key string, payload []byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.entries[key] = payload
}
