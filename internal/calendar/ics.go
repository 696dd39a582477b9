package calendar

import (
	"fmt"
	"strings"
	"time"

	"noteboard/internal/model"
)

const (
	icsDateLayout     = "20060102"
	icsDateTimeLayout = "20060102T150405Z"
)

// BuildEventICS renders a single event as an iCalendar document, including an
// RRULE when the event repeats.
func BuildEventICS(ev model.Event, now time.Time) (string, error) {
	title := strings.TrimSpace(ev.Title)
	if title == "" {
		title = "Noteboard Event"
	}

	uid := fmt.Sprintf("event-%s@noteboard", strings.TrimSpace(string(ev.ID)))
	if strings.TrimSpace(string(ev.ID)) == "" {
		uid = fmt.Sprintf("event-export-%d@noteboard", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Noteboard//Calendar Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format(icsDateTimeLayout),
		"SUMMARY:" + escapeICSText(title),
	}

	if ev.AllDay {
		end := dateOnly(ev.EndDate).AddDate(0, 0, 1)
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+dateOnly(ev.StartDate).Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+end.Format(icsDateLayout),
		)
	} else {
		lines = append(lines,
			"DTSTART:"+ev.StartDate.UTC().Format(icsDateTimeLayout),
			"DTEND:"+ev.EndDate.UTC().Format(icsDateTimeLayout),
		)
	}

	if loc := strings.TrimSpace(ev.Location); loc != "" {
		lines = append(lines, "LOCATION:"+escapeICSText(loc))
	}
	if desc := strings.TrimSpace(ev.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if rrule := repeatToRRULE(ev.Repeat); rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

func repeatToRRULE(rep model.EventRepeat) string {
	switch rep {
	case model.RepeatDaily:
		return "FREQ=DAILY"
	case model.RepeatWeekly:
		return "FREQ=WEEKLY"
	case model.RepeatMonthly:
		return "FREQ=MONTHLY"
	case model.RepeatYearly:
		return "FREQ=YEARLY"
	default:
		return ""
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
