package board

import (
	"encoding/json"
	"net/http"
	"strings"

	"noteboard/internal/view"
)

// Handler exposes the grouped task listing and the drop endpoint.
type Handler struct {
	controller  *Controller
	defaultMode view.Mode
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller, defaultMode: view.ModeFlat}
}

func (h *Handler) SetDefaultMode(mode view.Mode) {
	if mode != "" {
		h.defaultMode = mode
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

// Groups handles GET /api/tasks/groups?mode=...
func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	mode := h.defaultMode
	if raw := strings.TrimSpace(r.URL.Query().Get("mode")); raw != "" {
		mode = view.Mode(raw)
	}

	groups, err := h.controller.Groups(r.Context(), mode)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":   mode,
		"groups": groups,
	})
}

// Drop handles POST /api/board/drop.
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var ev DropEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if ev.ItemID == "" {
		writeErr(w, http.StatusBadRequest, "itemId is required")
		return
	}

	res, err := h.controller.HandleDrop(r.Context(), ev)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
