package task

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"noteboard/internal/model"
)

// FileRepo persists the task collection as one JSON file. Saves replace the
// whole file atomically so a crash mid-write never leaves a torn collection.
type FileRepo struct {
	mu    sync.RWMutex
	path  string
	items []model.Task
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{path: filepath.Join(dataDir, "tasks.json")}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.items = nil
			return nil
		}
		return err
	}
	var loaded []model.Task
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	r.items = loaded
	return nil
}

func (r *FileRepo) Load(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Task, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *FileRepo) Save(ctx context.Context, items []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(r.path, bytes.NewReader(b)); err != nil {
		return err
	}
	r.items = make([]model.Task, len(items))
	copy(r.items, items)
	return nil
}
