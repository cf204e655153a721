package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/service"
)

// MockNoteService is a mock implementation of service.NoteService for testing
type MockNoteService struct {
	ProcessNoteFn        func(ctx context.Context, userID uuid.UUID, text string, saveTasks bool) (*service.ProcessNoteResult, error)
	GetNoteFn            func(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)
	SaveTasksFn          func(ctx context.Context, userID, noteID uuid.UUID, tasks []domain.ExtractedTask) ([]*domain.Task, error)
	ListNotesWithTasksFn func(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error)
}

// ProcessNote implements service.NoteService
func (m *MockNoteService) ProcessNote(
	ctx context.Context,
	userID uuid.UUID,
	text string,
	saveTasks bool,
) (*service.ProcessNoteResult, error) {
	if m.ProcessNoteFn != nil {
		return m.ProcessNoteFn(ctx, userID, text, saveTasks)
	}
	return nil, nil
}

// GetNote implements service.NoteService
func (m *MockNoteService) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	if m.GetNoteFn != nil {
		return m.GetNoteFn(ctx, userID, noteID)
	}
	return nil, nil
}

// SaveTasks implements service.NoteService
func (m *MockNoteService) SaveTasks(
	ctx context.Context,
	userID, noteID uuid.UUID,
	tasks []domain.ExtractedTask,
) ([]*domain.Task, error) {
	if m.SaveTasksFn != nil {
		return m.SaveTasksFn(ctx, userID, noteID, tasks)
	}
	return nil, nil
}

// ListNotesWithTasks implements service.NoteService
func (m *MockNoteService) ListNotesWithTasks(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error) {
	if m.ListNotesWithTasksFn != nil {
		return m.ListNotesWithTasksFn(ctx, userID)
	}
	return nil, nil
}

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	ListTasksFn        func(ctx context.Context, userID uuid.UUID, status *domain.TaskStatus) ([]*domain.Task, error)
	GetTaskFn          func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListByNoteFn       func(ctx context.Context, userID, noteID uuid.UUID) ([]*domain.Task, error)
	UpdateStatusFn     func(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	UpdateImportanceFn func(ctx context.Context, userID, taskID uuid.UUID, important bool) (*domain.Task, error)
	DailyDigestFn      func(ctx context.Context, userID uuid.UUID) (*service.Digest, error)
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	status *domain.TaskStatus,
) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID, status)
	}
	return []*domain.Task{}, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return nil, nil
}

// ListByNote implements service.TaskService
func (m *MockTaskService) ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByNoteFn != nil {
		return m.ListByNoteFn(ctx, userID, noteID)
	}
	return []*domain.Task{}, nil
}

// UpdateStatus implements service.TaskService
func (m *MockTaskService) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, userID, taskID, status)
	}
	return nil, nil
}

// UpdateImportance implements service.TaskService
func (m *MockTaskService) UpdateImportance(
	ctx context.Context,
	userID, taskID uuid.UUID,
	important bool,
) (*domain.Task, error) {
	if m.UpdateImportanceFn != nil {
		return m.UpdateImportanceFn(ctx, userID, taskID, important)
	}
	return nil, nil
}

// DailyDigest implements service.TaskService
func (m *MockTaskService) DailyDigest(ctx context.Context, userID uuid.UUID) (*service.Digest, error) {
	if m.DailyDigestFn != nil {
		return m.DailyDigestFn(ctx, userID)
	}
	return nil, nil
}
