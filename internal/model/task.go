package model

import (
	"time"
)

type TaskID string

type SectionID string

// DefaultSectionID is the stable id of the implicit default section. Tasks
// with an empty SectionID belong to it.
const DefaultSectionID SectionID = "section_default"

// Status is the user-visible progress state of a task. It is independent of
// Completed: a task can sit in "almost_done" and still be open.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusAlmostDone Status = "almost_done"
)

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID          TaskID     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	SectionID   SectionID  `json:"sectionId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Repeat      *Repeat    `json:"repeat,omitempty"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SectionOrDefault resolves the empty SectionID sentinel.
func (t Task) SectionOrDefault() SectionID {
	if t.SectionID == "" {
		return DefaultSectionID
	}
	return t.SectionID
}

// EffectivePriority folds the unset zero value into PriorityNone.
func (t Task) EffectivePriority() Priority {
	if t.Priority == "" {
		return PriorityNone
	}
	return t.Priority
}

// EffectiveStatus folds the unset zero value into StatusNotStarted.
func (t Task) EffectiveStatus() Status {
	if t.Status == "" {
		return StatusNotStarted
	}
	return t.Status
}

// SubtaskRatio returns the fraction of completed subtasks, 0 when there are
// none.
func (t Task) SubtaskRatio() float64 {
	if len(t.Subtasks) == 0 {
		return 0
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.Subtasks))
}
