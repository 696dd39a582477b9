package model

import "time"

type EventID string

// EventRepeat is the calendar-event repeat vocabulary. It is deliberately a
// restricted subset of the task Repeat rule: no interval, no end condition.
type EventRepeat string

const (
	RepeatNever   EventRepeat = "never"
	RepeatDaily   EventRepeat = "daily"
	RepeatWeekly  EventRepeat = "weekly"
	RepeatMonthly EventRepeat = "monthly"
	RepeatYearly  EventRepeat = "yearly"
)

// Valid reports whether r is one of the known repeat values.
func (r EventRepeat) Valid() bool {
	switch r {
	case RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// Event is a calendar event. StartDate <= EndDate is a precondition enforced
// at the input boundary, not re-checked here.
type Event struct {
	ID          EventID     `json:"id"`
	Title       string      `json:"title"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	AllDay      bool        `json:"allDay"`
	Repeat      EventRepeat `json:"repeat"`
	Location    string      `json:"location,omitempty"`
	Description string      `json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
