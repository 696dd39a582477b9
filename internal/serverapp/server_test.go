package serverapp

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard/internal/config"
	"noteboard/internal/model"
)

func newTestServer(t *testing.T, backend string) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Storage.Backend = backend
	cfg.Sections = []config.SectionConfig{
		{ID: "section_default", Name: "Tasks", Order: 0},
		{ID: "section_work", Name: "Work", Order: 1},
	}

	h, err := NewHandler(Options{
		Config:  cfg,
		DataDir: t.TempDir(),
		Logger:  log.New(testWriter{t}, "", 0),
	})
	require.NoError(t, err)
	return h
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestNewHandler_RejectsUnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Storage.Backend = "etcd"

	_, err := NewHandler(Options{Config: cfg, DataDir: t.TempDir()})
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t, "file")

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), path)
	}
}

func TestEndToEnd_TaskThroughGroups(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			h := newTestServer(t, backend)

			body := bytes.NewBufferString(`{"title":"release notes","sectionId":"section_work","priority":"high"}`)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var created model.Task
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/groups?mode=priority", nil))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var out struct {
				Mode   string `json:"mode"`
				Groups []struct {
					ID    string       `json:"id"`
					Tasks []model.Task `json:"tasks"`
				} `json:"groups"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Equal(t, "priority", out.Mode)

			found := false
			for _, g := range out.Groups {
				if g.ID == "priority/high" {
					require.Len(t, g.Tasks, 1)
					assert.Equal(t, created.ID, g.Tasks[0].ID)
					found = true
				}
			}
			assert.True(t, found, "high priority group missing: %s", rec.Body.String())
		})
	}
}

func TestSectionsSeededFromConfig(t *testing.T) {
	h := newTestServer(t, "file")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sections", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var secs []model.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &secs))
	require.Len(t, secs, 2)
	assert.Equal(t, model.SectionID("section_work"), secs[1].ID)
}
