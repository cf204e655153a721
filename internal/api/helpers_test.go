package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-ai/taskflow-api/internal/api/shared"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
)

// newTestRouter mounts the handlers on the same paths the server uses.
func newTestRouter(notes *MockNoteService, tasks *MockTaskService) http.Handler {
	r := chi.NewRouter()
	noteHandler := NewNoteHandler(notes, logger.Discard())
	taskHandler := NewTaskHandler(tasks, logger.Discard())

	r.Post("/notes/process", noteHandler.ProcessNote)
	r.Get("/notes/{id}", noteHandler.GetNote)
	r.Post("/notes/{id}/tasks", noteHandler.SaveTasks)
	r.Get("/tasks", taskHandler.ListTasks)
	r.Get("/tasks/notes", noteHandler.ListNotesWithTasks)
	r.Get("/tasks/daily-digest", taskHandler.DailyDigest)
	r.Get("/tasks/by-note/{id}", taskHandler.ListByNote)
	r.Get("/tasks/{id}", taskHandler.GetTask)
	r.Put("/tasks/{id}/status", taskHandler.UpdateStatus)
	r.Put("/tasks/{id}/importance", taskHandler.UpdateImportance)
	return r
}

// doRequest sends a request as userID (or anonymously for uuid.Nil).
func doRequest(t *testing.T, h http.Handler, method, path string, body any, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != uuid.Nil {
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}
