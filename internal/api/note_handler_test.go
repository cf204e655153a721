package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-ai/taskflow-api/internal/api/shared"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/extraction"
	"github.com/taskflow-ai/taskflow-api/internal/service"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

var (
	fixedUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedNoteID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	fixedTaskID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	fixedTime   = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
)

func TestNoteHandler_ProcessNote(t *testing.T) {
	t.Parallel()

	due := domain.NewDate(2025, time.June, 12)

	tests := []struct {
		name           string
		userID         uuid.UUID
		body           any
		processFn      func(ctx context.Context, userID uuid.UUID, text string, saveTasks bool) (*service.ProcessNoteResult, error)
		expectedStatus int
		expectedErrMsg string
		check          func(t *testing.T, resp ProcessNoteResponse)
	}{
		{
			name:   "successful processing",
			userID: fixedUserID,
			body:   ProcessNoteRequest{Text: "Alice to send the deck by Thursday."},
			processFn: func(ctx context.Context, userID uuid.UUID, text string, saveTasks bool) (*service.ProcessNoteResult, error) {
				assert.Equal(t, fixedUserID, userID)
				assert.False(t, saveTasks)
				return &service.ProcessNoteResult{
					Note:      &domain.Note{ID: fixedNoteID, UserID: userID, OriginalText: text, Summary: "Deck review.", CreatedAt: fixedTime},
					Extracted: []domain.ExtractedTask{{Description: "Send the deck", DueDate: &due}, {Description: "Book a room"}},
				}, nil
			},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, resp ProcessNoteResponse) {
				assert.Equal(t, fixedNoteID, resp.NoteID)
				assert.Equal(t, "Deck review.", resp.Summary)
				require.Len(t, resp.ExtractedTasks, 2)
				require.NotNil(t, resp.ExtractedTasks[0].DueDate)
				assert.Equal(t, due, *resp.ExtractedTasks[0].DueDate)
				assert.Nil(t, resp.ExtractedTasks[1].DueDate)
				assert.Nil(t, resp.SavedTasks)
			},
		},
		{
			name:   "save tasks and degraded extraction",
			userID: fixedUserID,
			body:   ProcessNoteRequest{Text: "notes", SaveTasks: true},
			processFn: func(ctx context.Context, userID uuid.UUID, text string, saveTasks bool) (*service.ProcessNoteResult, error) {
				assert.True(t, saveTasks)
				return &service.ProcessNoteResult{
					Note:            &domain.Note{ID: fixedNoteID, Summary: extraction.SummaryFallback},
					Extracted:       []domain.ExtractedTask{},
					Saved:           []*domain.Task{},
					SummaryDegraded: true,
					TasksDegraded:   true,
				}, nil
			},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, resp ProcessNoteResponse) {
				assert.True(t, resp.SummaryDegraded)
				assert.True(t, resp.TasksDegraded)
				assert.NotNil(t, resp.ExtractedTasks)
				assert.Empty(t, resp.ExtractedTasks)
			},
		},
		{
			name:           "missing user",
			userID:         uuid.Nil,
			body:           ProcessNoteRequest{Text: "notes"},
			expectedStatus: http.StatusUnauthorized,
			expectedErrMsg: "User ID not found or invalid",
		},
		{
			name:           "malformed body",
			userID:         fixedUserID,
			body:           `{"text": `,
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid request format",
		},
		{
			name:           "missing text",
			userID:         fixedUserID,
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Text: required field",
		},
		{
			name:   "whitespace notes",
			userID: fixedUserID,
			body:   ProcessNoteRequest{Text: "   "},
			processFn: func(ctx context.Context, userID uuid.UUID, text string, saveTasks bool) (*service.ProcessNoteResult, error) {
				return nil, service.NewServiceError("note", "process_note", "failed", extraction.ErrEmptyNotes)
			},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Notes text cannot be empty",
		},
		{
			name:   "store failure",
			userID: fixedUserID,
			body:   ProcessNoteRequest{Text: "notes"},
			processFn: func(ctx context.Context, userID uuid.UUID, text string, saveTasks bool) (*service.ProcessNoteResult, error) {
				return nil, errors.New("connection to postgres://user:secret@db failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "Failed to process notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notes := &MockNoteService{ProcessNoteFn: tt.processFn}
			rr := doRequest(t, newTestRouter(notes, &MockTaskService{}), http.MethodPost, "/notes/process", tt.body, tt.userID)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedErrMsg != "" {
				resp := decodeBody[shared.ErrorResponse](t, rr)
				assert.Equal(t, tt.expectedErrMsg, resp.Error)
				assert.NotContains(t, rr.Body.String(), "secret")
				return
			}
			if tt.check != nil {
				tt.check(t, decodeBody[ProcessNoteResponse](t, rr))
			}
		})
	}
}

func TestNoteHandler_GetNote(t *testing.T) {
	t.Parallel()

	notes := &MockNoteService{
		GetNoteFn: func(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
			if noteID != fixedNoteID {
				return nil, store.ErrNoteNotFound
			}
			return &domain.Note{ID: noteID, UserID: userID, OriginalText: "text", Summary: "sum", CreatedAt: fixedTime}, nil
		},
	}
	router := newTestRouter(notes, &MockTaskService{})

	rr := doRequest(t, router, http.MethodGet, "/notes/"+fixedNoteID.String(), nil, fixedUserID)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[NoteResponse](t, rr)
	assert.Equal(t, fixedNoteID, resp.NoteID)
	assert.Equal(t, "sum", resp.Summary)

	rr = doRequest(t, router, http.MethodGet, "/notes/"+uuid.NewString(), nil, fixedUserID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Note not found", decodeBody[shared.ErrorResponse](t, rr).Error)

	rr = doRequest(t, router, http.MethodGet, "/notes/not-a-uuid", nil, fixedUserID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid id: has invalid format", decodeBody[shared.ErrorResponse](t, rr).Error)
}

func TestNoteHandler_SaveTasks(t *testing.T) {
	t.Parallel()

	var received []domain.ExtractedTask
	notes := &MockNoteService{
		SaveTasksFn: func(ctx context.Context, userID, noteID uuid.UUID, tasks []domain.ExtractedTask) ([]*domain.Task, error) {
			if noteID != fixedNoteID {
				return nil, store.ErrNoteNotFound
			}
			received = tasks
			saved := make([]*domain.Task, len(tasks))
			for i, task := range tasks {
				saved[i] = &domain.Task{
					ID:          uuid.New(),
					UserID:      userID,
					NoteID:      &noteID,
					Description: task.Description,
					DueDate:     task.DueDate,
					Status:      domain.TaskStatusOpen,
					CreatedAt:   fixedTime,
				}
			}
			return saved, nil
		},
	}
	router := newTestRouter(notes, &MockTaskService{})
	path := "/notes/" + fixedNoteID.String() + "/tasks"

	rr := doRequest(t, router, http.MethodPost, path,
		`{"tasks": [{"description": "Draft plan", "due_date": "2025-06-12"}, {"description": "Call Bob", "due_date": null}]}`,
		fixedUserID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decodeBody[[]TaskResponse](t, rr)
	require.Len(t, resp, 2)
	assert.Equal(t, "open", resp[0].Status)
	require.NotNil(t, resp[0].NoteID)
	assert.Equal(t, fixedNoteID, *resp[0].NoteID)
	require.Len(t, received, 2)
	assert.Equal(t, domain.NewDate(2025, time.June, 12), *received[0].DueDate)
	assert.Nil(t, received[1].DueDate)

	rr = doRequest(t, router, http.MethodPost, path, `{"tasks": [{"description": "x", "due_date": "12/06/2025"}]}`, fixedUserID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid date: expected YYYY-MM-DD", decodeBody[shared.ErrorResponse](t, rr).Error)

	rr = doRequest(t, router, http.MethodPost, path, `{"tasks": [{"due_date": null}]}`, fixedUserID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid Description: required field", decodeBody[shared.ErrorResponse](t, rr).Error)

	rr = doRequest(t, router, http.MethodPost, "/notes/"+uuid.NewString()+"/tasks", `{"tasks": []}`, fixedUserID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNoteHandler_ListNotesWithTasks(t *testing.T) {
	t.Parallel()

	notes := &MockNoteService{
		ListNotesWithTasksFn: func(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error) {
			return []*domain.NoteWithTasks{
				{
					Note:  domain.Note{ID: fixedNoteID, Summary: "sum", CreatedAt: fixedTime},
					Tasks: []*domain.Task{{ID: fixedTaskID, Description: "t", Status: domain.TaskStatusOpen}},
				},
			}, nil
		},
	}

	rr := doRequest(t, newTestRouter(notes, &MockTaskService{}), http.MethodGet, "/tasks/notes", nil, fixedUserID)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeBody[[]NoteWithTasksResponse](t, rr)
	require.Len(t, resp, 1)
	assert.Equal(t, fixedNoteID, resp[0].NoteID)
	require.Len(t, resp[0].Tasks, 1)
	assert.Equal(t, fixedTaskID, resp[0].Tasks[0].ID)
}

func TestNewNoteHandlerPanicsWithoutLogger(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewNoteHandler(&MockNoteService{}, nil) })
}
