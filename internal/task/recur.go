package task

import (
	"time"

	"noteboard/internal/model"
)

// monthlyScanLimit bounds the search for the next month containing the
// anchored day-of-month. Dates are never clamped into shorter months: a task
// anchored on the 31st skips February, April, June, September and November.
const monthlyScanLimit = 48

// yearlyScanLimit bounds the leap-day search for Feb 29 anchors.
const yearlyScanLimit = 8

// NextDue advances due by one step of r. The second return is false when the
// rule is malformed or can produce no further occurrence; per the error
// contract a silently stopped recurrence beats a crash loop.
func NextDue(due time.Time, r model.Repeat) (time.Time, bool) {
	if r.Interval < 1 {
		return time.Time{}, false
	}

	switch r.Frequency {
	case model.FreqHour:
		return due.Add(time.Duration(r.Interval) * time.Hour), true

	case model.FreqDaily:
		return due.AddDate(0, 0, r.Interval), true

	case model.FreqWeekly:
		return nextWeekly(due, r)

	case model.FreqMonthly:
		day := r.MonthlyDay
		if day < 1 || day > 31 {
			day = due.Day()
		}
		for k := 1; k <= monthlyScanLimit; k++ {
			if d, ok := monthWithDay(due, r.Interval*k, day); ok {
				return d, true
			}
		}
		return time.Time{}, false

	case model.FreqYearly:
		for k := 1; k <= yearlyScanLimit; k++ {
			if d, ok := monthWithDay(due, 12*r.Interval*k, due.Day()); ok {
				return d, true
			}
		}
		return time.Time{}, false

	default:
		return time.Time{}, false
	}
}

// nextWeekly picks the next selected weekday: a later selected day within the
// due date's week, otherwise the first selected day Interval weeks ahead.
// An empty day set on a weekly rule is malformed.
func nextWeekly(due time.Time, r model.Repeat) (time.Time, bool) {
	var selected [7]bool
	any := false
	for _, wd := range r.WeeklyDays {
		if wd >= 0 && wd <= 6 {
			selected[wd] = true
			any = true
		}
	}
	if !any {
		return time.Time{}, false
	}

	for wd := int(due.Weekday()) + 1; wd <= 6; wd++ {
		if selected[wd] {
			return due.AddDate(0, 0, wd-int(due.Weekday())), true
		}
	}

	// Week starts on Sunday, matching the 0=Sunday day numbering.
	weekStart := due.AddDate(0, 0, -int(due.Weekday()))
	next := weekStart.AddDate(0, 0, 7*r.Interval)
	for wd := 0; wd <= 6; wd++ {
		if selected[wd] {
			return next.AddDate(0, 0, wd), true
		}
	}
	return time.Time{}, false
}

// monthWithDay returns the date `months` calendar months after t anchored on
// day, or false when that month is too short for it.
func monthWithDay(t time.Time, months, day int) (time.Time, bool) {
	y, m, _ := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if day > daysInMonth(first.Year(), first.Month()) {
		return time.Time{}, false
	}
	h, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, h, min, sec, t.Nanosecond(), t.Location()), true
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Regenerate produces the successor of a just-completed repeating task: fresh
// identity, cleared completion, advanced due date, everything else copied
// verbatim. It returns false when the rule has no further occurrence, the end
// condition is met, or the rule cannot be advanced (no due date, bad
// interval, empty weekly day set).
func Regenerate(t model.Task) (model.Task, bool) {
	if t.Repeat == nil || t.DueDate == nil {
		return model.Task{}, false
	}
	r := *t.Repeat

	next, ok := NextDue(*t.DueDate, r)
	if !ok {
		return model.Task{}, false
	}

	rep := t.Repeat.Clone()
	switch r.Ends {
	case model.EndsAfterOccurrences:
		if r.EndsAfter <= 0 {
			return model.Task{}, false
		}
		rep.EndsAfter = r.EndsAfter - 1
	case model.EndsOnDate:
		if r.EndsOn != nil && dateOnly(next).After(dateOnly(*r.EndsOn)) {
			return model.Task{}, false
		}
	}

	succ := t
	succ.ID = newID("task")
	succ.Completed = false
	succ.CompletedAt = nil
	succ.DueDate = &next
	succ.Repeat = rep
	succ.Subtasks = append([]model.Subtask(nil), t.Subtasks...)
	return succ, true
}
