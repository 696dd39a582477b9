package task

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard/internal/bus"
	"noteboard/internal/clock"
	"noteboard/internal/model"
	"noteboard/internal/settings"
)

func newTestHandler(t *testing.T) (*Handler, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, bus.New(), clk, log.New(testWriter{t}, "", 0))
	return NewHandler(svc, settings.NewMemoryStore()), repo
}

func serve(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks", h.TasksRoot)
	mux.HandleFunc("/api/tasks/", h.TasksSub)
	mux.HandleFunc("/api/sections", h.Sections)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestTasksRoot_CreateAndList(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := serve(h)

	rec := doJSON(t, mux, http.MethodPost, "/api/tasks", map[string]any{"title": "pick up eggs"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pick up eggs", created.Title)

	rec = doJSON(t, mux, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestTasksRoot_RejectsBlankTitle(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, serve(h), http.MethodPost, "/api/tasks", map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasksSub_PatchAndDelete(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := serve(h)

	rec := doJSON(t, mux, http.MethodPost, "/api/tasks", map[string]any{"title": "draft"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, mux, http.MethodPatch, "/api/tasks/"+string(created.ID), map[string]any{
		"priority": "high",
		"dueDate":  "2024-02-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)

	rec = doJSON(t, mux, http.MethodDelete, "/api/tasks/"+string(created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/tasks/"+string(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasksSub_CompleteReturnsSuccessor(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := serve(h)

	rec := doJSON(t, mux, http.MethodPost, "/api/tasks", map[string]any{
		"title":   "water plants",
		"dueDate": "2024-01-01T00:00:00Z",
		"repeat":  map[string]any{"frequency": "daily", "interval": 1},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, mux, http.MethodPost, "/api/tasks/"+string(created.ID)+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Task      model.Task  `json:"task"`
		Successor *model.Task `json:"successor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Task.Completed)
	require.NotNil(t, out.Successor)
	assert.False(t, out.Successor.Completed)
}

func TestTasksSub_UnknownID(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, serve(h), http.MethodPost, "/api/tasks/task_missing/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSections_PutNormalizesAndReturns(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := serve(h)

	rec := doJSON(t, mux, http.MethodGet, "/api/sections", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var secs []model.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &secs))
	require.Len(t, secs, 1)
	assert.Equal(t, model.DefaultSectionID, secs[0].ID)

	rec = doJSON(t, mux, http.MethodPut, "/api/sections", []model.Section{
		{ID: "section_work", Name: "Work", Order: 5},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &secs))

	// The default section is always present and ordering is by Order.
	require.Len(t, secs, 2)
	assert.Equal(t, model.DefaultSectionID, secs[0].ID)
	assert.Equal(t, model.SectionID("section_work"), secs[1].ID)
}
