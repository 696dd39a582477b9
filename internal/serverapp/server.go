// Package serverapp is the composition root: it wires stores, services,
// handlers and middleware into one http.Handler.
package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"noteboard/internal/board"
	"noteboard/internal/bus"
	"noteboard/internal/calendar"
	"noteboard/internal/clock"
	"noteboard/internal/config"
	"noteboard/internal/httpmw"
	"noteboard/internal/model"
	"noteboard/internal/order"
	"noteboard/internal/settings"
	"noteboard/internal/task"
	"noteboard/internal/view"
)

type Options struct {
	Config  *config.Config
	DataDir string
	Logger  *log.Logger
	Clock   clock.Clock

	// Bus defaults to a fresh bus; inject one to observe data-changed
	// signals from outside the handler.
	Bus *bus.Bus
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = opts.Config.Storage.DataDir
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}

	settingsStore, err := openSettings(opts.Config.Storage.Backend, opts.DataDir)
	if err != nil {
		return nil, err
	}
	if err := seedSections(settingsStore, opts.Config); err != nil {
		return nil, err
	}

	taskRepo, err := task.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}
	eventRepo, err := calendar.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}

	orderStore := order.NewStore(settingsStore, opts.Logger)
	taskService := task.NewService(taskRepo, opts.Bus, opts.Clock, opts.Logger)
	controller := board.NewController(taskRepo, orderStore, settingsStore, opts.Bus, opts.Clock, opts.Logger)

	taskHandler := task.NewHandler(taskService, settingsStore)
	boardHandler := board.NewHandler(controller)
	boardHandler.SetDefaultMode(view.Mode(opts.Config.Views.DefaultMode))
	calendarHandler := calendar.NewHandler(eventRepo, opts.Bus, opts.Clock, opts.Logger)
	calendarHandler.SetHorizonMonths(opts.Config.Calendar.HorizonMonths)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks", taskHandler.TasksRoot)
	mux.HandleFunc("/api/tasks/groups", boardHandler.Groups)
	mux.HandleFunc("/api/tasks/", taskHandler.TasksSub)
	mux.HandleFunc("/api/sections", taskHandler.Sections)
	mux.HandleFunc("/api/board/drop", boardHandler.Drop)
	mux.HandleFunc("/api/calendar/events", calendarHandler.EventsRoot)
	mux.HandleFunc("/api/calendar/events/", calendarHandler.EventsSub)
	mux.HandleFunc("/api/calendar/occurrences", calendarHandler.Occurrences)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "noteboard",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := taskRepo.Load(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "noteboard",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func openSettings(backend, dataDir string) (settings.Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "file":
		return settings.NewFileStore(dataDir)
	case "sqlite":
		return settings.OpenSQLite(filepath.Join(dataDir, "noteboard.db"))
	default:
		return nil, errors.New("unknown storage backend: " + backend)
	}
}

// seedSections writes the configured section definitions on first boot so
// every view has its sections before the first client request.
func seedSections(st settings.Store, cfg *config.Config) error {
	ctx := context.Background()
	var existing []model.Section
	ok, err := st.Get(ctx, task.SectionsSettingKey, &existing)
	if err != nil {
		return err
	}
	if ok && len(existing) > 0 {
		return nil
	}
	return task.SaveSections(ctx, st, cfg.SectionModels())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
