package calendar

import (
	"bytes"
	"context"
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
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newTestMux(t *testing.T) (*http.ServeMux, *MemoryRepo, *clock.FakeClock) {
	t.Helper()
	repo := NewMemoryRepo()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	h := NewHandler(repo, bus.New(), clk, log.New(testWriter{t}, "", 0))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/calendar/events", h.EventsRoot)
	mux.HandleFunc("/api/calendar/events/", h.EventsSub)
	mux.HandleFunc("/api/calendar/occurrences", h.Occurrences)
	return mux, repo, clk
}

func postEvent(t *testing.T, mux *http.ServeMux, body any) model.Event {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/events", &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ev model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	return ev
}

func TestEventsRoot_CreateAssignsIDAndDefaults(t *testing.T) {
	mux, repo, clk := newTestMux(t)

	ev := postEvent(t, mux, map[string]any{
		"title":     "Dentist",
		"startDate": "2024-02-01T14:00:00Z",
		"endDate":   "2024-02-01T15:00:00Z",
	})
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, model.RepeatNever, ev.Repeat)
	assert.Equal(t, clk.Now(), ev.CreatedAt)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestEventsRoot_Validation(t *testing.T) {
	mux, _, _ := newTestMux(t)

	cases := []map[string]any{
		{"title": "  ", "startDate": "2024-02-01T14:00:00Z", "endDate": "2024-02-01T15:00:00Z"},
		{"title": "backwards", "startDate": "2024-02-01T15:00:00Z", "endDate": "2024-02-01T14:00:00Z"},
		{"title": "bad repeat", "startDate": "2024-02-01T14:00:00Z", "endDate": "2024-02-01T15:00:00Z", "repeat": "biweekly"},
	}
	for _, body := range cases {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/calendar/events", &buf)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestEventsSub_GetDeleteAndICS(t *testing.T) {
	mux, _, _ := newTestMux(t)

	ev := postEvent(t, mux, map[string]any{
		"title":     "Standup",
		"startDate": "2024-01-08T09:30:00Z",
		"endDate":   "2024-01-08T09:45:00Z",
		"repeat":    "weekly",
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/events/"+string(ev.ID)+"/ics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "RRULE:FREQ=WEEKLY\r\n")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/calendar/events/"+string(ev.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/events/"+string(ev.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOccurrences_HonorsMonthsParam(t *testing.T) {
	mux, _, _ := newTestMux(t)

	postEvent(t, mux, map[string]any{
		"title":     "Standup",
		"startDate": "2024-01-01T09:30:00Z",
		"endDate":   "2024-01-01T09:45:00Z",
		"repeat":    "weekly",
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/occurrences?months=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out.Dates, "2024-01-29")
	assert.NotContains(t, out.Dates, "2024-02-05")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/occurrences?months=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
