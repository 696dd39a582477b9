package task

import (
	"context"
	"log"

	"noteboard/internal/bus"
	"noteboard/internal/clock"
	"noteboard/internal/model"
)

// Service owns read-modify-write cycles over the task collection and the
// "tasks changed" announcement that follows every successful mutation.
type Service struct {
	repo   Repo
	bus    *bus.Bus
	clock  clock.Clock
	logger *log.Logger
}

func NewService(repo Repo, b *bus.Bus, clk clock.Clock, logger *log.Logger) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, bus: b, clock: clk, logger: logger}
}

func (s *Service) notify() {
	if s.bus != nil {
		s.bus.Publish(bus.SignalTasksUpdated)
	}
}

// List returns the full collection. A failing read degrades to an empty list:
// this subsystem is not the system of record and a blank screen beats a
// blocking error.
func (s *Service) List(ctx context.Context) []model.Task {
	items, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Printf("task load failed: %v", err)
		return []model.Task{}
	}
	return items
}

func (s *Service) Get(ctx context.Context, id model.TaskID) (model.Task, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range items {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (s *Service) Create(ctx context.Context, t model.Task) (model.Task, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return model.Task{}, err
	}

	now := s.clock.Now()
	if t.ID == "" {
		t.ID = newID("task")
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	items = append(items, t)
	if err := s.repo.Save(ctx, items); err != nil {
		return model.Task{}, err
	}
	s.notify()
	return t, nil
}

func (s *Service) Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return model.Task{}, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return model.Task{}, ErrNotFound
	}
	if err := p.Apply(&items[idx]); err != nil {
		return model.Task{}, err
	}
	items[idx].UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, items); err != nil {
		return model.Task{}, err
	}
	s.notify()
	return items[idx], nil
}

func (s *Service) Delete(ctx context.Context, id model.TaskID) error {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return ErrNotFound
	}
	items = append(items[:idx], items[idx+1:]...)

	if err := s.repo.Save(ctx, items); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Complete marks the task completed and, when a live repeat rule applies,
// inserts the regenerated successor in the same persisted batch. The
// collection is never observable with the original completed but the
// successor missing, and exactly one tasksUpdated signal fires after the
// batch lands.
func (s *Service) Complete(ctx context.Context, id model.TaskID) (model.Task, *model.Task, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return model.Task{}, nil, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return model.Task{}, nil, ErrNotFound
	}
	if items[idx].Completed {
		return items[idx], nil, nil
	}

	now := s.clock.Now()
	items[idx].Completed = true
	items[idx].CompletedAt = &now
	items[idx].UpdatedAt = now

	var successor *model.Task
	if succ, ok := Regenerate(items[idx]); ok {
		succ.CreatedAt = now
		succ.UpdatedAt = now
		items = append(items, succ)
		successor = &succ
	}

	if err := s.repo.Save(ctx, items); err != nil {
		return model.Task{}, nil, err
	}
	s.notify()
	return items[idx], successor, nil
}

func indexOf(items []model.Task, id model.TaskID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
