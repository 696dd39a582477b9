package calendar

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"noteboard/internal/bus"
	"noteboard/internal/clock"
	"noteboard/internal/model"
)

// Handler serves the calendar event API.
type Handler struct {
	repo          Repo
	bus           *bus.Bus
	clock         clock.Clock
	logger        *log.Logger
	horizonMonths int
}

func NewHandler(repo Repo, b *bus.Bus, clk clock.Clock, logger *log.Logger) *Handler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{repo: repo, bus: b, clock: clk, logger: logger, horizonMonths: DefaultHorizonMonths}
}

func (h *Handler) SetHorizonMonths(months int) {
	if months > 0 {
		h.horizonMonths = months
	}
}

func (h *Handler) notify() {
	if h.bus != nil {
		h.bus.Publish(bus.SignalCalendarEventsUpdated)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// EventsRoot handles /api/calendar/events.
func (h *Handler) EventsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		events, err := h.repo.Load(r.Context())
		if err != nil {
			h.logger.Printf("event load failed: %v", err)
			events = []model.Event{}
		}
		if events == nil {
			events = []model.Event{}
		}
		writeJSON(w, http.StatusOK, events)

	case http.MethodPost:
		var ev model.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(ev.Title) == "" {
			writeErr(w, http.StatusBadRequest, "title is required")
			return
		}
		if ev.EndDate.Before(ev.StartDate) {
			writeErr(w, http.StatusBadRequest, "endDate must not precede startDate")
			return
		}
		if ev.Repeat == "" {
			ev.Repeat = model.RepeatNever
		}
		if !ev.Repeat.Valid() {
			writeErr(w, http.StatusBadRequest, "unknown repeat value")
			return
		}

		events, err := h.repo.Load(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}

		now := h.clock.Now()
		ev.ID = model.EventID(uuid.NewString())
		ev.CreatedAt = now
		ev.UpdatedAt = now
		events = append(events, ev)

		if err := h.repo.Save(r.Context(), events); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.notify()
		writeJSON(w, http.StatusCreated, ev)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// EventsSub handles /api/calendar/events/{id} and /api/calendar/events/{id}/ics.
func (h *Handler) EventsSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/calendar/events/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeErr(w, http.StatusNotFound, "event id required")
		return
	}

	events, err := h.repo.Load(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx := -1
	for i := range events {
		if events[i].ID == model.EventID(id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeErr(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}

	switch {
	case sub == "ics" && r.Method == http.MethodGet:
		ics, err := BuildEventICS(events[idx], h.clock.Now())
		if err != nil {
			writeErr(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="event.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ics))

	case sub == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, events[idx])

	case sub == "" && r.Method == http.MethodDelete:
		events = append(events[:idx], events[idx+1:]...)
		if err := h.repo.Save(r.Context(), events); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.notify()
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Occurrences handles GET /api/calendar/occurrences?months=N. The response is
// the unordered bag of occurrence dates used for calendar-dot rendering.
func (h *Handler) Occurrences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	months := h.horizonMonths
	if raw := strings.TrimSpace(r.URL.Query().Get("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeErr(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = n
	}

	events, err := h.repo.Load(r.Context())
	if err != nil {
		h.logger.Printf("event load failed: %v", err)
		events = nil
	}

	dates := Expand(events, months, h.clock.Now())
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": out})
}
