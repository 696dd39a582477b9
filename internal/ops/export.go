package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"noteboard/internal/calendar"
	"noteboard/internal/model"
)

// ExportEventICS loads the event store under dataDir and renders the named
// event as an iCalendar document.
func ExportEventICS(ctx context.Context, dataDir string, eventID string, now time.Time) (string, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return "", fmt.Errorf("event id is required")
	}

	repo, err := calendar.NewFileRepo(dataDir)
	if err != nil {
		return "", err
	}
	events, err := repo.Load(ctx)
	if err != nil {
		return "", err
	}
	for _, ev := range events {
		if ev.ID == model.EventID(eventID) {
			return calendar.BuildEventICS(ev, now)
		}
	}
	return "", fmt.Errorf("event not found: %s", eventID)
}
