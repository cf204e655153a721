package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
)

// TaskFilter narrows List results. A nil Status matches every status.
type TaskFilter struct {
	Status *domain.TaskStatus
}

// TaskStore defines the interface for task persistence.
//
// Lists are ordered by importance (important first), then due date
// ascending with undated tasks last, then creation time ascending.
type TaskStore interface {
	// CreateBatch stores the extracted tasks as open, not-important tasks
	// owned by userID and linked to noteID. Creation times preserve the
	// order of extracted.
	CreateBatch(
		ctx context.Context,
		userID uuid.UUID,
		noteID *uuid.UUID,
		extracted []domain.ExtractedTask,
	) ([]*domain.Task, error)

	// GetByID retrieves a task owned by userID.
	// Returns ErrTaskNotFound if it does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List returns the user's tasks matching filter.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// ListByNote returns the user's tasks extracted from noteID.
	ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*domain.Task, error)

	// UpdateStatus sets the status of a task and returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist for the user.
	UpdateStatus(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// UpdateImportance sets the importance flag of a task and returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist for the user.
	UpdateImportance(ctx context.Context, userID, taskID uuid.UUID, important bool) (*domain.Task, error)

	// WithTx returns a TaskStore that runs its queries in tx.
	WithTx(tx *sql.Tx) TaskStore
}
