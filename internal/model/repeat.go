package model

import "time"

// Frequency is the unit a task repeat rule advances by.
type Frequency string

const (
	FreqHour    Frequency = "hour"
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
)

// EndsType selects the end condition of a repeat rule.
type EndsType string

const (
	EndsNever            EndsType = "never"
	EndsOnDate           EndsType = "on_date"
	EndsAfterOccurrences EndsType = "after_occurrences"
)

// Repeat describes a task-level repeat rule. At most one of EndsOn/EndsAfter
// is meaningful, selected by Ends. WeeklyDays uses 0=Sunday..6=Saturday and
// is only meaningful for FreqWeekly; MonthlyDay only for FreqMonthly.
type Repeat struct {
	Frequency  Frequency  `json:"frequency"`
	Interval   int        `json:"interval"`
	Ends       EndsType   `json:"ends,omitempty"`
	EndsOn     *time.Time `json:"endsOn,omitempty"`
	EndsAfter  int        `json:"endsAfter,omitempty"`
	WeeklyDays []int      `json:"weeklyDays,omitempty"`
	MonthlyDay int        `json:"monthlyDay,omitempty"`
}

// Clone returns a deep copy so successor tasks never alias the source rule.
func (r *Repeat) Clone() *Repeat {
	if r == nil {
		return nil
	}
	out := *r
	if r.EndsOn != nil {
		d := *r.EndsOn
		out.EndsOn = &d
	}
	if r.WeeklyDays != nil {
		out.WeeklyDays = append([]int(nil), r.WeeklyDays...)
	}
	return &out
}
