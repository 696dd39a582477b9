// Package view derives the alternative groupings of the task collection.
// Every mode is a pure partition function over the same task set; group order
// is fixed per mode and never data-dependent.
package view

import (
	"errors"
	"strings"
	"time"

	"noteboard/internal/model"
)

type Mode string

const (
	ModeFlat         Mode = "flat"
	ModeKanban       Mode = "kanban"
	ModeKanbanStatus Mode = "kanbanStatus"
	ModePriority     Mode = "priority"
	ModeTimeline     Mode = "timeline"
	ModeProgress     Mode = "progress"
	ModeHistory      Mode = "history"
)

var ErrUnknownMode = errors.New("unknown view mode")

// Group is one named subset of the task collection under a view mode.
type Group struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Tasks []model.Task `json:"tasks"`
}

// Context carries the data a partition needs beyond the tasks themselves.
type Context struct {
	Sections []model.Section
	Now      time.Time
}

// GroupID builds the synthetic group identifier. The mode acts as a
// namespace, so persisted orders of different modes never collide.
func GroupID(mode Mode, key string) string {
	return string(mode) + "/" + key
}

// ParseGroupID splits a group identifier back into mode and partition key.
func ParseGroupID(id string) (Mode, string, bool) {
	mode, key, found := strings.Cut(id, "/")
	if !found || mode == "" || key == "" {
		return "", "", false
	}
	switch Mode(mode) {
	case ModeFlat, ModeKanban, ModeKanbanStatus, ModePriority, ModeTimeline, ModeProgress, ModeHistory:
		return Mode(mode), key, true
	default:
		return "", "", false
	}
}

type partitionFunc func([]model.Task, Context) []Group

var partitions = map[Mode]partitionFunc{
	ModeFlat:         partitionBySection(ModeFlat),
	ModeKanban:       partitionBySection(ModeKanban),
	ModeKanbanStatus: partitionByStatus,
	ModePriority:     partitionByPriority,
	ModeTimeline:     partitionByTimeline,
	ModeProgress:     partitionByProgress,
	ModeHistory:      partitionByHistory,
}

// Partition maps the task set into the mode's ordered group list. Dispatch is
// a closed table; an unknown mode is an error, not a silent empty result.
func Partition(tasks []model.Task, mode Mode, ctx Context) ([]Group, error) {
	fn, ok := partitions[mode]
	if !ok {
		return nil, ErrUnknownMode
	}
	return fn(tasks, ctx), nil
}

func partitionBySection(mode Mode) partitionFunc {
	return func(tasks []model.Task, ctx Context) []Group {
		sections := ctx.Sections
		if len(sections) == 0 {
			sections = []model.Section{model.DefaultSection()}
		}

		known := make(map[model.SectionID]int, len(sections))
		groups := make([]Group, len(sections))
		for i, s := range sections {
			known[s.ID] = i
			groups[i] = Group{ID: GroupID(mode, string(s.ID)), Label: s.Name}
		}

		fallback := 0
		if i, ok := known[model.DefaultSectionID]; ok {
			fallback = i
		}

		for _, t := range tasks {
			i, ok := known[t.SectionOrDefault()]
			if !ok {
				// Stale section reference: route to the default section
				// rather than dropping the task.
				i = fallback
			}
			groups[i].Tasks = append(groups[i].Tasks, t)
		}
		return groups
	}
}

func partitionByStatus(tasks []model.Task, ctx Context) []Group {
	groups := []Group{
		{ID: GroupID(ModeKanbanStatus, string(model.StatusNotStarted)), Label: "Not Started"},
		{ID: GroupID(ModeKanbanStatus, string(model.StatusInProgress)), Label: "In Progress"},
		{ID: GroupID(ModeKanbanStatus, string(model.StatusAlmostDone)), Label: "Almost Done"},
		{ID: GroupID(ModeKanbanStatus, "completed"), Label: "Completed"},
	}

	for _, t := range tasks {
		i := 0
		switch {
		// Completed always wins over whatever Status says.
		case t.Completed:
			i = 3
		case t.EffectiveStatus() == model.StatusInProgress:
			i = 1
		case t.EffectiveStatus() == model.StatusAlmostDone:
			i = 2
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

func partitionByPriority(tasks []model.Task, ctx Context) []Group {
	order := []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow, model.PriorityNone}
	labels := []string{"High", "Medium", "Low", "No Priority"}

	groups := make([]Group, len(order))
	index := make(map[model.Priority]int, len(order))
	for i, p := range order {
		groups[i] = Group{ID: GroupID(ModePriority, string(p)), Label: labels[i]}
		index[p] = i
	}

	for _, t := range tasks {
		i, ok := index[t.EffectivePriority()]
		if !ok {
			i = index[model.PriorityNone]
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

func partitionByTimeline(tasks []model.Task, ctx Context) []Group {
	keys := []string{"overdue", "today", "tomorrow", "thisWeek", "later", "noDate"}
	labels := []string{"Overdue", "Today", "Tomorrow", "This Week", "Later", "No Date"}

	groups := make([]Group, len(keys))
	for i, k := range keys {
		groups[i] = Group{ID: GroupID(ModeTimeline, k), Label: labels[i]}
	}

	today := dateOnly(ctx.Now)
	for _, t := range tasks {
		i := timelineBucket(t, today)
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// timelineBucket evaluates the mutually exclusive buckets in priority order:
// overdue, today, tomorrow, thisWeek, later; no due date always lands in
// noDate.
func timelineBucket(t model.Task, today time.Time) int {
	if t.DueDate == nil {
		return 5
	}
	due := dateOnly(*t.DueDate)
	switch {
	case due.Before(today):
		return 0
	case due.Equal(today):
		return 1
	case due.Equal(today.AddDate(0, 0, 1)):
		return 2
	case !due.After(today.AddDate(0, 0, 6)):
		return 3
	default:
		return 4
	}
}

func partitionByProgress(tasks []model.Task, ctx Context) []Group {
	groups := []Group{
		{ID: GroupID(ModeProgress, "notStarted"), Label: "Not Started"},
		{ID: GroupID(ModeProgress, "inProgress"), Label: "In Progress"},
		{ID: GroupID(ModeProgress, "almostDone"), Label: "Almost Done"},
	}

	for _, t := range tasks {
		if t.Completed {
			continue
		}
		ratio := t.SubtaskRatio()
		i := 0
		switch {
		case ratio >= 0.75:
			i = 2
		case ratio > 0:
			i = 1
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

func partitionByHistory(tasks []model.Task, ctx Context) []Group {
	groups := []Group{
		{ID: GroupID(ModeHistory, "today"), Label: "Today"},
		{ID: GroupID(ModeHistory, "yesterday"), Label: "Yesterday"},
		{ID: GroupID(ModeHistory, "thisWeek"), Label: "This Week"},
		{ID: GroupID(ModeHistory, "older"), Label: "Older"},
	}

	today := dateOnly(ctx.Now)
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		i := historyBucket(t, today)
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

func historyBucket(t model.Task, today time.Time) int {
	ts := t.CompletedAt
	if ts == nil {
		ts = t.DueDate
	}
	if ts == nil {
		return 3
	}
	done := dateOnly(*ts)
	switch {
	case done.Equal(today):
		return 0
	case done.Equal(today.AddDate(0, 0, -1)):
		return 1
	case !done.Before(today.AddDate(0, 0, -6)):
		return 2
	default:
		return 3
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
