package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"noteboard/internal/board"
	"noteboard/internal/bus"
	"noteboard/internal/calendar"
	"noteboard/internal/clock"
	"noteboard/internal/model"
	"noteboard/internal/order"
	"noteboard/internal/settings"
	"noteboard/internal/task"
	"noteboard/internal/view"
)

const PORT = "8470"

// Dev entrypoint: everything in memory, pre-seeded so the API is
// interesting straight away. The persistent server lives in cmd/server.
func main() {
	ctx := context.Background()

	mux := http.NewServeMux()
	if err := seed(ctx, mux); err != nil {
		log.Fatal(err)
	}

	addr := ":" + PORT
	fmt.Printf("noteboard listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func seed(ctx context.Context, mux *http.ServeMux) error {
	clk := clock.RealClock{}
	now := clk.Now()
	signals := bus.New()

	settingsStore := settings.NewMemoryStore()
	taskRepo := task.NewMemoryRepo()
	eventRepo := calendar.NewMemoryRepo()

	sections := []model.Section{
		model.DefaultSection(),
		{ID: "section_work", Name: "Work", Color: "#4f83cc", Order: 1},
		{ID: "section_home", Name: "Home", Color: "#6ab04c", Order: 2},
	}
	if err := task.SaveSections(ctx, settingsStore, sections); err != nil {
		return err
	}

	due := now.AddDate(0, 0, 1)
	overdue := now.AddDate(0, 0, -2)
	tasks := []model.Task{
		{
			ID:        "task_groceries",
			Title:     "pick up groceries",
			SectionID: "section_home",
			Priority:  model.PriorityMedium,
			DueDate:   &due,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "task_review",
			Title:     "review quarterly report",
			SectionID: "section_work",
			Status:    model.StatusInProgress,
			Priority:  model.PriorityHigh,
			DueDate:   &overdue,
			Subtasks: []model.Subtask{
				{ID: "sub_1", Title: "read draft", Completed: true},
				{ID: "sub_2", Title: "leave comments"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "task_water_plants",
			Title:     "water the plants",
			SectionID: "section_home",
			DueDate:   &due,
			Repeat: &model.Repeat{
				Frequency: model.FreqWeekly,
				Interval:  1,
				Ends:      model.EndsNever,
				WeeklyDays: []int{
					int(time.Monday),
					int(time.Thursday),
				},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := taskRepo.Save(ctx, tasks); err != nil {
		return err
	}

	standupStart := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, time.Local)
	events := []model.Event{
		{
			ID:        "ev_standup",
			Title:     "Standup",
			StartDate: standupStart,
			EndDate:   standupStart.Add(15 * time.Minute),
			Repeat:    model.RepeatDaily,
			Location:  "video call",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := eventRepo.Save(ctx, events); err != nil {
		return err
	}

	logger := log.Default()
	orderStore := order.NewStore(settingsStore, logger)
	taskService := task.NewService(taskRepo, signals, clk, logger)
	controller := board.NewController(taskRepo, orderStore, settingsStore, signals, clk, logger)

	taskHandler := task.NewHandler(taskService, settingsStore)
	boardHandler := board.NewHandler(controller)
	boardHandler.SetDefaultMode(view.ModeFlat)
	calendarHandler := calendar.NewHandler(eventRepo, signals, clk, logger)

	mux.HandleFunc("/api/tasks", taskHandler.TasksRoot)
	mux.HandleFunc("/api/tasks/groups", boardHandler.Groups)
	mux.HandleFunc("/api/tasks/", taskHandler.TasksSub)
	mux.HandleFunc("/api/sections", taskHandler.Sections)
	mux.HandleFunc("/api/board/drop", boardHandler.Drop)
	mux.HandleFunc("/api/calendar/events", calendarHandler.EventsRoot)
	mux.HandleFunc("/api/calendar/events/", calendarHandler.EventsSub)
	mux.HandleFunc("/api/calendar/occurrences", calendarHandler.Occurrences)

	return nil
}
