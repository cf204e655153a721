package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
)

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	// Create validates and saves a new note.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note owned by userID.
	// Returns ErrNoteNotFound if it does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)

	// ListWithTasks returns the user's notes, newest first, each with the
	// tasks that reference it. Returns an empty slice if there are none.
	ListWithTasks(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error)

	// WithTx returns a NoteStore that runs its queries in tx.
	WithTx(tx *sql.Tx) NoteStore
}
