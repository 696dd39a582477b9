package calendar

import (
	"time"

	"noteboard/internal/model"
)

// DefaultHorizonMonths bounds occurrence expansion. Events recur indefinitely
// unless deleted; the horizon is a safety bound, not a domain end date.
const DefaultHorizonMonths = 3

// OccursOn reports whether an event's repeat rule produces an occurrence on
// target's calendar day. Dates before the anchor never match: the guard runs
// before the per-rule arithmetic so a multiple-of-7 day difference in the
// past cannot satisfy the weekly rule.
//
// Monthly rules never clamp into shorter months: an event anchored on the
// 31st does not occur in February, April, June, September or November. This
// matches the shipped behavior and is covered by regression tests; do not
// "fix" it.
func OccursOn(ev model.Event, target time.Time) bool {
	start := dateOnly(ev.StartDate)
	day := dateOnly(target)
	if day.Before(start) {
		return false
	}

	switch ev.Repeat {
	case model.RepeatNever:
		return day.Equal(start)
	case model.RepeatDaily:
		return true
	case model.RepeatWeekly:
		return daysBetween(start, day)%7 == 0
	case model.RepeatMonthly:
		return day.Day() == start.Day()
	case model.RepeatYearly:
		return day.Day() == start.Day() && day.Month() == start.Month()
	default:
		return false
	}
}

// Expand materializes every occurrence date of the given events up to
// now+horizonMonths. Each event contributes its own start date regardless of
// rule. The result is an unordered bag: duplicates across distinct events are
// expected and the consumer does its own date bucketing.
func Expand(events []model.Event, horizonMonths int, now time.Time) []time.Time {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	limit := dateOnly(now).AddDate(0, horizonMonths, 0)

	var out []time.Time
	for _, ev := range events {
		start := dateOnly(ev.StartDate)
		out = append(out, start)
		// A repeat value outside the known vocabulary behaves like never:
		// the stepping loop below must only run for rules it can advance.
		if ev.Repeat == model.RepeatNever || !ev.Repeat.Valid() {
			continue
		}

		// Occurrences are anchored on the start date rather than stepped
		// from the previous occurrence, so a skipped short month cannot
		// drift a 31st-anchored series onto the 1st..3rd.
		for i := 1; ; i++ {
			d, ok := occurrenceAt(start, ev.Repeat, i)
			if d.After(limit) {
				break
			}
			if ok {
				out = append(out, d)
			}
		}
	}
	return out
}

// occurrenceAt returns the i-th stepped date of the rule. ok is false when
// the anchored day does not exist in the stepped month (monthly/yearly no
// clamping); the returned date still advances so the caller can test the
// horizon bound.
func occurrenceAt(start time.Time, repeat model.EventRepeat, i int) (time.Time, bool) {
	switch repeat {
	case model.RepeatDaily:
		return start.AddDate(0, 0, i), true
	case model.RepeatWeekly:
		return start.AddDate(0, 0, 7*i), true
	case model.RepeatMonthly:
		return monthAnchored(start, i)
	case model.RepeatYearly:
		return monthAnchored(start, 12*i)
	default:
		return start, false
	}
}

func monthAnchored(start time.Time, months int) (time.Time, bool) {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	if d > daysInMonth(first.Year(), first.Month()) {
		return first, false
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, start.Location()), true
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween counts whole calendar days in UTC so DST transitions cannot
// shift the weekly modulo.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
