package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// FileStore persists settings as a single JSON document. Every Set rewrites
// the whole file atomically, which keeps the file valid after a crash.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]json.RawMessage
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	s := &FileStore{
		path:   filepath.Join(dataDir, "settings.json"),
		values: map[string]json.RawMessage{},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded map[string]json.RawMessage
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded == nil {
		loaded = map[string]json.RawMessage{}
	}
	s.values = loaded
	return nil
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.path, bytes.NewReader(b))
}

func (s *FileStore) Get(ctx context.Context, key string, out any) (bool, error) {
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

func (s *FileStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.saveLocked()
}
