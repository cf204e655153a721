package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/extraction"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

// Extractor turns meeting notes into a summary and extracted tasks.
type Extractor interface {
	Extract(ctx context.Context, notesText string) (*extraction.Result, error)
}

// ProcessNoteResult is the outcome of processing a block of notes.
type ProcessNoteResult struct {
	Note *domain.Note
	// Extracted holds the tasks in the order the model emitted them.
	Extracted []domain.ExtractedTask
	// Saved holds the persisted tasks when saving was requested.
	Saved           []*domain.Task
	SummaryDegraded bool
	TasksDegraded   bool
}

// NoteService provides note-related operations
type NoteService interface {
	// ProcessNote runs extraction over notesText and stores the resulting
	// note. When saveTasks is true the extracted tasks are stored in the
	// same transaction.
	ProcessNote(ctx context.Context, userID uuid.UUID, notesText string, saveTasks bool) (*ProcessNoteResult, error)

	// GetNote retrieves a note owned by userID.
	GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)

	// SaveTasks stores tasks against a note the user owns.
	SaveTasks(ctx context.Context, userID, noteID uuid.UUID, tasks []domain.ExtractedTask) ([]*domain.Task, error)

	// ListNotesWithTasks returns the user's notes, newest first, with their tasks.
	ListNotesWithTasks(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error)
}

// txRunner runs fn inside a transaction.
type txRunner func(ctx context.Context, fn store.TxFn) error

// noteServiceImpl implements the NoteService interface
type noteServiceImpl struct {
	extractor Extractor
	noteStore store.NoteStore
	taskStore store.TaskStore
	runInTx   txRunner
	logger    *slog.Logger
}

// Ensure noteServiceImpl implements NoteService interface
var _ NoteService = (*noteServiceImpl)(nil)

// NewNoteService creates a new NoteService.
// It returns an error if any of the required dependencies are nil.
func NewNoteService(
	db *sql.DB,
	extractor Extractor,
	noteStore store.NoteStore,
	taskStore store.TaskStore,
	logger *slog.Logger,
) (NoteService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db", ErrNilDependency)
	}
	if extractor == nil {
		return nil, fmt.Errorf("%w: extractor", ErrNilDependency)
	}
	if noteStore == nil {
		return nil, fmt.Errorf("%w: noteStore", ErrNilDependency)
	}
	if taskStore == nil {
		return nil, fmt.Errorf("%w: taskStore", ErrNilDependency)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		extractor: extractor,
		noteStore: noteStore,
		taskStore: taskStore,
		runInTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		logger: logger.With(slog.String("component", "note_service")),
	}, nil
}

// ProcessNote implements NoteService.ProcessNote
func (s *noteServiceImpl) ProcessNote(
	ctx context.Context,
	userID uuid.UUID,
	notesText string,
	saveTasks bool,
) (*ProcessNoteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	extracted, err := s.extractor.Extract(ctx, notesText)
	if err != nil {
		return nil, NewServiceError("note", "process_note", "failed to extract tasks", err)
	}

	note, err := domain.NewNote(userID, notesText, extracted.Summary)
	if err != nil {
		return nil, NewServiceError("note", "process_note", "invalid note", fmt.Errorf("%w: %w", domain.ErrValidation, err))
	}

	result := &ProcessNoteResult{
		Note:            note,
		Extracted:       extracted.Tasks,
		SummaryDegraded: extracted.SummaryDegraded,
		TasksDegraded:   extracted.TasksDegraded,
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.noteStore.WithTx(tx).Create(ctx, note); err != nil {
			return NewServiceError("note", "process_note", "failed to save note", err)
		}

		if !saveTasks {
			return nil
		}
		if len(extracted.Tasks) == 0 {
			result.Saved = []*domain.Task{}
			return nil
		}

		saved, err := s.taskStore.WithTx(tx).CreateBatch(ctx, userID, &note.ID, extracted.Tasks)
		if err != nil {
			return NewServiceError("note", "process_note", "failed to save tasks", err)
		}
		result.Saved = saved
		return nil
	})
	if err != nil {
		log.Error("failed to process note",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("note processed",
		slog.String("note_id", note.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("task_count", len(extracted.Tasks)),
		slog.Bool("tasks_saved", saveTasks),
		slog.Bool("summary_degraded", extracted.SummaryDegraded),
		slog.Bool("tasks_degraded", extracted.TasksDegraded))

	return result, nil
}

// GetNote implements NoteService.GetNote
func (s *noteServiceImpl) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	note, err := s.noteStore.GetByID(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("note", "get_note", "failed to load note", err)
	}
	return note, nil
}

// SaveTasks implements NoteService.SaveTasks
func (s *noteServiceImpl) SaveTasks(
	ctx context.Context,
	userID, noteID uuid.UUID,
	tasks []domain.ExtractedTask,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			return nil, NewServiceError("note", "save_tasks", "invalid task",
				domain.NewValidationError(fmt.Sprintf("tasks[%d].description", i), "cannot be empty", domain.ErrValidation))
		}
	}

	var saved []*domain.Task
	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.noteStore.WithTx(tx).GetByID(ctx, userID, noteID); err != nil {
			return NewServiceError("note", "save_tasks", "failed to load note", err)
		}

		var err error
		saved, err = s.taskStore.WithTx(tx).CreateBatch(ctx, userID, &noteID, tasks)
		if err != nil {
			return NewServiceError("note", "save_tasks", "failed to save tasks", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("tasks saved for note",
		slog.String("note_id", noteID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("task_count", len(saved)))
	return saved, nil
}

// ListNotesWithTasks implements NoteService.ListNotesWithTasks
func (s *noteServiceImpl) ListNotesWithTasks(ctx context.Context, userID uuid.UUID) ([]*domain.NoteWithTasks, error) {
	notes, err := s.noteStore.ListWithTasks(ctx, userID)
	if err != nil {
		return nil, NewServiceError("note", "list_notes", "failed to list notes", err)
	}
	return notes, nil
}
