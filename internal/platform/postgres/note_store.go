package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the NoteStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// WithTx implements store.NoteStore.WithTx
func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.NoteStore.Create
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO meeting_notes (id, user_id, original_text, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.OriginalText,
		note.Summary,
		note.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()),
			slog.String("user_id", note.UserID.String()))
		return store.NewStoreError("note", "create", "failed to insert note", MapError(err))
	}

	log.Info("note created successfully",
		slog.String("note_id", note.ID.String()),
		slog.String("user_id", note.UserID.String()))
	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *PostgresNoteStore) GetByID(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, original_text, summary, created_at
		FROM meeting_notes
		WHERE id = $1 AND user_id = $2
	`

	var note domain.Note
	err := s.db.QueryRowContext(ctx, query, noteID, userID).Scan(
		&note.ID,
		&note.UserID,
		&note.OriginalText,
		&note.Summary,
		&note.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found",
				slog.String("note_id", noteID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note by ID",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()))
		return nil, store.NewStoreError("note", "get", "failed to query note", MapError(err))
	}

	return &note, nil
}

// ListWithTasks implements store.NoteStore.ListWithTasks
func (s *PostgresNoteStore) ListWithTasks(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	notesQuery := `
		SELECT id, user_id, original_text, summary, created_at
		FROM meeting_notes
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, notesQuery, userID)
	if err != nil {
		log.Error("failed to list notes",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("note", "list", "failed to query notes", MapError(err))
	}

	result := []*domain.NoteWithTasks{}
	byID := make(map[uuid.UUID]*domain.NoteWithTasks)

	err = func() error {
		defer func() {
			if closeErr := rows.Close(); closeErr != nil {
				log.Error("failed to close rows", slog.String("error", closeErr.Error()))
			}
		}()

		for rows.Next() {
			nwt := &domain.NoteWithTasks{Tasks: []*domain.Task{}}
			if err := rows.Scan(
				&nwt.ID,
				&nwt.UserID,
				&nwt.OriginalText,
				&nwt.Summary,
				&nwt.CreatedAt,
			); err != nil {
				return err
			}
			result = append(result, nwt)
			byID[nwt.ID] = nwt
		}
		return rows.Err()
	}()
	if err != nil {
		log.Error("failed to scan notes",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("note", "list", "failed to scan notes", MapError(err))
	}

	if len(result) == 0 {
		return result, nil
	}

	tasksQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND note_id IS NOT NULL
		ORDER BY ` + taskOrder
	tasks, err := queryTasks(ctx, s.db, log, tasksQuery, userID)
	if err != nil {
		return nil, store.NewStoreError("task", "list", "failed to query note tasks", MapError(err))
	}

	for _, task := range tasks {
		if nwt, ok := byID[*task.NoteID]; ok {
			nwt.Tasks = append(nwt.Tasks, task)
		}
	}

	log.Debug("listed notes with tasks",
		slog.String("user_id", userID.String()),
		slog.Int("note_count", len(result)),
		slog.Int("task_count", len(tasks)))
	return result, nil
}
