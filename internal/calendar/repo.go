package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"noteboard/internal/model"
)

var ErrNotFound = errors.New("event not found")

// Repo is the persistence boundary for the event collection; like tasks it
// is a full-collection replace, no partial update API.
type Repo interface {
	Load(ctx context.Context) ([]model.Event, error)
	Save(ctx context.Context, events []model.Event) error
}

// MemoryRepo keeps events in memory (dev/test use).
type MemoryRepo struct {
	mu     sync.RWMutex
	events []model.Event
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Load(ctx context.Context) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *MemoryRepo) Save(ctx context.Context, events []model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make([]model.Event, len(events))
	copy(r.events, events)
	return nil
}

// FileRepo persists the event collection as one JSON file with atomic
// replace-on-save.
type FileRepo struct {
	mu     sync.RWMutex
	path   string
	events []model.Event
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{path: filepath.Join(dataDir, "events.json")}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.events = nil
			return nil
		}
		return err
	}
	var loaded []model.Event
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	r.events = loaded
	return nil
}

func (r *FileRepo) Load(ctx context.Context) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *FileRepo) Save(ctx context.Context, events []model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(r.path, bytes.NewReader(b)); err != nil {
		return err
	}
	r.events = make([]model.Event, len(events))
	copy(r.events, events)
	return nil
}
