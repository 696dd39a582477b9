package task

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"noteboard/internal/model"
)

var ErrNotFound = errors.New("task not found")

// Repo is the persistence boundary for the task collection. There is no
// partial update API at this level: callers read the full collection, modify
// it, and write it back in one piece.
type Repo interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, items []model.Task) error
}

func newID(prefix string) model.TaskID {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return model.TaskID(prefix + "_" + hex.EncodeToString(b[:]))
}

// MemoryRepo keeps the collection in memory (dev/test use).
type MemoryRepo struct {
	mu    sync.RWMutex
	items []model.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Load(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Task, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryRepo) Save(ctx context.Context, items []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]model.Task, len(items))
	copy(r.items, items)
	return nil
}

// Patch represents a partial update.
// nil pointer => "no change"
// empty string for DueDate => clear (set to nil)
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
	Status      *model.Status    `json:"status,omitempty"`
	Priority    *model.Priority  `json:"priority,omitempty"`
	SectionID   *model.SectionID `json:"sectionId,omitempty"`
	DueDate     *string          `json:"dueDate,omitempty"`
	Repeat      *model.Repeat    `json:"repeat,omitempty"`
	ClearRepeat bool             `json:"clearRepeat,omitempty"`
	Subtasks    *[]model.Subtask `json:"subtasks,omitempty"`
}

const dueDateLayout = "2006-01-02"

// Apply mutates t according to p. It does not touch Completed bookkeeping
// beyond the flag itself; completion with regeneration goes through
// Service.Complete.
func (p Patch) Apply(t *model.Task) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
		if !t.Completed {
			t.CompletedAt = nil
		}
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.SectionID != nil {
		t.SectionID = *p.SectionID
	}

	// pointer string field with "empty clears" semantics
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = nil
		} else {
			d, err := time.ParseInLocation(dueDateLayout, *p.DueDate, time.Local)
			if err != nil {
				return errors.New("due date must be YYYY-MM-DD")
			}
			t.DueDate = &d
		}
	}

	if p.ClearRepeat {
		t.Repeat = nil
	} else if p.Repeat != nil {
		t.Repeat = p.Repeat.Clone()
	}

	if p.Subtasks != nil {
		if *p.Subtasks == nil {
			t.Subtasks = []model.Subtask{}
		} else {
			t.Subtasks = *p.Subtasks
		}
	}

	return nil
}
