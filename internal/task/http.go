package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"noteboard/internal/model"
	"noteboard/internal/settings"
)

// Handler serves the task CRUD API plus section definitions.
type Handler struct {
	service  *Service
	settings settings.Store
}

func NewHandler(service *Service, st settings.Store) *Handler {
	return &Handler{service: service, settings: st}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// TasksRoot handles /api/tasks.
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.service.List(r.Context()))

	case http.MethodPost:
		var t model.Task
		if err := decodeJSON(r, &t); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(t.Title) == "" {
			writeErr(w, http.StatusBadRequest, "title is required")
			return
		}
		created, err := h.service.Create(r.Context(), t)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// TasksSub handles /api/tasks/{id} and /api/tasks/{id}/complete.
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeErr(w, http.StatusNotFound, "task id required")
		return
	}
	taskID := model.TaskID(id)

	switch {
	case sub == "complete" && r.Method == http.MethodPost:
		completed, successor, err := h.service.Complete(r.Context(), taskID)
		if err != nil {
			h.writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"task":      completed,
			"successor": successor,
		})

	case sub == "" && r.Method == http.MethodGet:
		t, err := h.service.Get(r.Context(), taskID)
		if err != nil {
			h.writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case sub == "" && r.Method == http.MethodPatch:
		var p Patch
		if err := decodeJSON(r, &p); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		t, err := h.service.Update(r.Context(), taskID, p)
		if err != nil {
			h.writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case sub == "" && r.Method == http.MethodDelete:
		if err := h.service.Delete(r.Context(), taskID); err != nil {
			h.writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Sections handles /api/sections.
func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, LoadSections(r.Context(), h.settings, nil))

	case http.MethodPut:
		var secs []model.Section
		if err := decodeJSON(r, &secs); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := SaveSections(r.Context(), h.settings, secs); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, LoadSections(r.Context(), h.settings, nil))

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) writeServiceErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, err.Error())
		return
	}
	writeErr(w, http.StatusInternalServerError, err.Error())
}
