// Package settings is the key-value settings/document store. Values are
// JSON-serializable; writes are last-write-wins with no merge across
// concurrent writers (single active client assumption).
package settings

import (
	"context"
	"encoding/json"
	"sync"
)

type Store interface {
	// Get unmarshals the value stored under key into out. The boolean is
	// false when the key has never been written.
	Get(ctx context.Context, key string, out any) (bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
}

// MemoryStore keeps settings in memory (dev/test use).
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]json.RawMessage{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}
