// Package board orchestrates drag-and-drop over the view groups: the field
// mutation implied by a cross-group move, the destination group's new order,
// and the single "tasks changed" announcement that follows.
package board

import (
	"context"
	"log"

	"noteboard/internal/bus"
	"noteboard/internal/clock"
	"noteboard/internal/model"
	"noteboard/internal/order"
	"noteboard/internal/settings"
	"noteboard/internal/task"
	"noteboard/internal/view"
)

// DropEvent is the structured drop the UI layer delivers once per
// interaction. An empty DestGroupID means the drop landed outside any
// droppable.
type DropEvent struct {
	SourceGroupID string       `json:"sourceGroupId"`
	DestGroupID   string       `json:"destGroupId"`
	SourceIndex   int          `json:"sourceIndex"`
	DestIndex     int          `json:"destIndex"`
	ItemID        model.TaskID `json:"itemId"`
}

type dropKind int

const (
	dropNoTarget dropKind = iota
	dropNoop
	dropSameGroup
	dropCrossGroup
)

// classify is the pure transition function of the drop state machine.
func classify(ev DropEvent) dropKind {
	if ev.DestGroupID == "" {
		return dropNoTarget
	}
	if ev.SourceGroupID == ev.DestGroupID {
		if ev.SourceIndex == ev.DestIndex {
			return dropNoop
		}
		return dropSameGroup
	}
	return dropCrossGroup
}

// Result reports what a drop changed. Changed is false for the no-op arms:
// drop outside a droppable, same slot, or an inconsistent destination group.
type Result struct {
	Changed bool           `json:"changed"`
	Task    *model.Task    `json:"task,omitempty"`
	Order   []model.TaskID `json:"order,omitempty"`
}

type Controller struct {
	tasks    task.Repo
	orders   *order.Store
	settings settings.Store
	bus      *bus.Bus
	clock    clock.Clock
	logger   *log.Logger
}

func NewController(tasks task.Repo, orders *order.Store, st settings.Store, b *bus.Bus, clk clock.Clock, logger *log.Logger) *Controller {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{tasks: tasks, orders: orders, settings: st, bus: b, clock: clk, logger: logger}
}

// HandleDrop runs one drop through the state machine. Cross-group drops first
// apply the field mutation implied by the destination group, then the
// destination order is recomputed and persisted; the source group needs no
// rewrite since reconciliation recomputes membership from live data. Exactly
// one tasksUpdated signal fires after both writes, never between them.
func (c *Controller) HandleDrop(ctx context.Context, ev DropEvent) (Result, error) {
	kind := classify(ev)
	if kind == dropNoTarget || kind == dropNoop {
		return Result{}, nil
	}

	mode, _, ok := view.ParseGroupID(ev.DestGroupID)
	if !ok {
		c.logger.Printf("drop ignored: unknown destination group %q", ev.DestGroupID)
		return Result{}, nil
	}

	items, err := c.tasks.Load(ctx)
	if err != nil {
		c.logger.Printf("drop aborted: task load failed: %v", err)
		return Result{}, nil
	}
	sections := task.LoadSections(ctx, c.settings, c.logger)
	vctx := view.Context{Sections: sections, Now: c.clock.Now()}

	var mutated *model.Task
	if kind == dropCrossGroup {
		patch, ok := mutationForDrop(mode, ev.DestGroupID, sections)
		if !ok {
			// Derived views (timeline, progress, history) and stale group
			// ids have no inverse field mutation; the drop is ignored.
			c.logger.Printf("drop ignored: no mutation for destination %q", ev.DestGroupID)
			return Result{}, nil
		}

		idx := -1
		for i := range items {
			if items[i].ID == ev.ItemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			c.logger.Printf("drop ignored: item %q not found", ev.ItemID)
			return Result{}, nil
		}

		wasCompleted := items[idx].Completed
		if err := patch.Apply(&items[idx]); err != nil {
			return Result{}, err
		}
		now := c.clock.Now()
		if patch.Completed != nil && *patch.Completed && items[idx].CompletedAt == nil {
			items[idx].CompletedAt = &now
		}
		items[idx].UpdatedAt = now

		// Completing through the board carries the same obligation as the
		// explicit complete endpoint: a live repeat rule spawns its
		// successor in the same persisted batch.
		if !wasCompleted && items[idx].Completed {
			if succ, ok := task.Regenerate(items[idx]); ok {
				succ.CreatedAt = now
				succ.UpdatedAt = now
				items = append(items, succ)
			}
		}

		if err := c.tasks.Save(ctx, items); err != nil {
			c.logger.Printf("drop mutation write failed: %v", err)
			return Result{}, err
		}
		mutated = &items[idx]
	}

	groups, err := view.Partition(items, mode, vctx)
	if err != nil {
		return Result{}, err
	}
	var live []model.TaskID
	found := false
	for _, g := range groups {
		if g.ID == ev.DestGroupID {
			for _, t := range g.Tasks {
				live = append(live, t.ID)
			}
			found = true
			break
		}
	}
	if !found {
		c.logger.Printf("drop ignored: destination group %q not in mode %q", ev.DestGroupID, mode)
		return Result{}, nil
	}
	if !containsID(live, ev.ItemID) {
		// Stale drop: the item no longer belongs to the destination group,
		// so its id must not enter the stored order.
		c.logger.Printf("drop ignored: item %q not in group %q", ev.ItemID, ev.DestGroupID)
		if mutated == nil {
			return Result{}, nil
		}
		if c.bus != nil {
			c.bus.Publish(bus.SignalTasksUpdated)
		}
		return Result{Changed: true, Task: mutated}, nil
	}

	ids := c.orders.Reconciled(ctx, ev.DestGroupID, live)
	ids = removeID(ids, ev.ItemID)
	ids = insertAt(ids, ev.ItemID, ev.DestIndex)

	if err := c.orders.Set(ctx, ev.DestGroupID, ids); err != nil {
		// Logged, not retried; the user can repeat the drag. A persisted
		// cross-group mutation still warrants the changed signal below.
		c.logger.Printf("order write failed for %q: %v", ev.DestGroupID, err)
		if mutated == nil {
			return Result{}, nil
		}
		ids = nil
	}

	if c.bus != nil {
		c.bus.Publish(bus.SignalTasksUpdated)
	}
	return Result{Changed: true, Task: mutated, Order: ids}, nil
}

// Groups returns the mode's partition with every group's tasks in their
// user-defined order, reconciled against live membership.
func (c *Controller) Groups(ctx context.Context, mode view.Mode) ([]view.Group, error) {
	items, err := c.tasks.Load(ctx)
	if err != nil {
		c.logger.Printf("task load failed: %v", err)
		items = nil
	}
	sections := task.LoadSections(ctx, c.settings, c.logger)

	groups, err := view.Partition(items, mode, view.Context{Sections: sections, Now: c.clock.Now()})
	if err != nil {
		return nil, err
	}

	for gi := range groups {
		g := &groups[gi]
		live := make([]model.TaskID, len(g.Tasks))
		byID := make(map[model.TaskID]model.Task, len(g.Tasks))
		for i, t := range g.Tasks {
			live[i] = t.ID
			byID[t.ID] = t
		}

		ordered := c.orders.Reconciled(ctx, g.ID, live)
		sorted := make([]model.Task, 0, len(ordered))
		for _, id := range ordered {
			sorted = append(sorted, byID[id])
		}
		g.Tasks = sorted
	}
	return groups, nil
}

// mutationForDrop is the inverse of the partition membership functions: which
// field change makes the task belong to the destination group. Derived views
// return false.
func mutationForDrop(mode view.Mode, destGroupID string, sections []model.Section) (task.Patch, bool) {
	gotMode, key, ok := view.ParseGroupID(destGroupID)
	if !ok || gotMode != mode {
		return task.Patch{}, false
	}

	switch mode {
	case view.ModeFlat, view.ModeKanban:
		sid := model.SectionID(key)
		for _, s := range sections {
			if s.ID == sid {
				return task.Patch{SectionID: &sid}, true
			}
		}
		return task.Patch{}, false

	case view.ModeKanbanStatus:
		if key == "completed" {
			done := true
			// Status deliberately untouched: reopening restores the old lane.
			return task.Patch{Completed: &done}, true
		}
		st := model.Status(key)
		switch st {
		case model.StatusNotStarted, model.StatusInProgress, model.StatusAlmostDone:
			open := false
			return task.Patch{Status: &st, Completed: &open}, true
		}
		return task.Patch{}, false

	case view.ModePriority:
		p := model.Priority(key)
		switch p {
		case model.PriorityNone, model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
			return task.Patch{Priority: &p}, true
		}
		return task.Patch{}, false

	default:
		return task.Patch{}, false
	}
}

func containsID(ids []model.TaskID, id model.TaskID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []model.TaskID, id model.TaskID) []model.TaskID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertAt(ids []model.TaskID, id model.TaskID, idx int) []model.TaskID {
	if idx < 0 {
		idx = 0
	}
	if idx > len(ids) {
		idx = len(ids)
	}
	ids = append(ids, "")
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = id
	return ids
}
