package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

const (
	taskColumns = `id, user_id, note_id, description, due_date, status, is_important, created_at`
	taskOrder   = `is_important DESC, due_date ASC NULLS LAST, created_at ASC, id ASC`

	taskColumnCount = 8
	// maxTaskRowsPerInsert keeps each INSERT well under the 65535 bind
	// parameter limit of the Postgres protocol.
	maxTaskRowsPerInsert = 1000
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// CreateBatch implements store.TaskStore.CreateBatch.
// Rows are written by multi-row INSERTs of at most maxTaskRowsPerInsert
// rows, all in one transaction; the i-th task is created one microsecond
// after the (i-1)-th so listing preserves emission order.
func (s *PostgresTaskStore) CreateBatch(
	ctx context.Context,
	userID uuid.UUID,
	noteID *uuid.UUID,
	extracted []domain.ExtractedTask,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(extracted) == 0 {
		return []*domain.Task{}, nil
	}

	base := s.now()
	tasks := make([]*domain.Task, 0, len(extracted))
	for i, e := range extracted {
		task, err := domain.NewTask(userID, noteID, e)
		if err != nil {
			log.Warn("task validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return nil, fmt.Errorf("%w: task %d: %w", store.ErrInvalidEntity, i, err)
		}
		task.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		tasks = append(tasks, task)
	}

	insert := func(ctx context.Context, db store.DBTX) error {
		for start := 0; start < len(tasks); start += maxTaskRowsPerInsert {
			end := min(start+maxTaskRowsPerInsert, len(tasks))
			query, args := buildTaskInsert(tasks[start:end])
			if _, err := db.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if sqlDB, ok := s.db.(*sql.DB); ok && len(tasks) > maxTaskRowsPerInsert {
		err = store.RunInTransaction(ctx, sqlDB, func(ctx context.Context, tx *sql.Tx) error {
			return insert(ctx, tx)
		})
	} else {
		err = insert(ctx, s.db)
	}
	if err != nil {
		log.Error("failed to insert tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("task_count", len(tasks)))
		mapped := MapError(err)
		if IsForeignKeyViolation(err) {
			mapped = fmt.Errorf("%w: %v", store.ErrNoteNotFound, err)
		}
		return nil, store.NewStoreError("task", "create", "failed to insert tasks", mapped)
	}

	log.Info("tasks created successfully",
		slog.String("user_id", userID.String()),
		slog.Int("task_count", len(tasks)))
	return tasks, nil
}

// buildTaskInsert returns a multi-row INSERT for tasks and its arguments.
func buildTaskInsert(tasks []*domain.Task) (string, []any) {
	placeholders := make([]string, 0, len(tasks))
	args := make([]any, 0, len(tasks)*taskColumnCount)
	for i, t := range tasks {
		n := i * taskColumnCount
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8))
		args = append(args, t.ID, t.UserID, t.NoteID, t.Description, t.DueDate, string(t.Status), t.IsImportant, t.CreatedAt)
	}
	return `INSERT INTO tasks (` + taskColumns + `) VALUES ` + strings.Join(placeholders, ", "), args
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", taskID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}
	if filter.Status != nil {
		query += ` AND status = $2`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY ` + taskOrder

	tasks, err := queryTasks(ctx, s.db, log, query, args...)
	if err != nil {
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	return tasks, nil
}

// ListByNote implements store.TaskStore.ListByNote
func (s *PostgresTaskStore) ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND note_id = $2 ORDER BY ` + taskOrder
	tasks, err := queryTasks(ctx, s.db, log, query, userID, noteID)
	if err != nil {
		return nil, store.NewStoreError("task", "list", "failed to query tasks by note", MapError(err))
	}
	return tasks, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if !domain.IsValidTaskStatus(status) {
		return nil, domain.ErrInvalidTaskStatus
	}

	query := `UPDATE tasks SET status = $1 WHERE id = $2 AND user_id = $3 RETURNING ` + taskColumns
	return s.update(ctx, "status", query, string(status), taskID, userID)
}

// UpdateImportance implements store.TaskStore.UpdateImportance
func (s *PostgresTaskStore) UpdateImportance(
	ctx context.Context,
	userID, taskID uuid.UUID,
	important bool,
) (*domain.Task, error) {
	query := `UPDATE tasks SET is_important = $1 WHERE id = $2 AND user_id = $3 RETURNING ` + taskColumns
	return s.update(ctx, "importance", query, important, taskID, userID)
}

func (s *PostgresTaskStore) update(ctx context.Context, field, query string, args ...any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("field", field))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("field", field))
		return nil, store.NewStoreError("task", "update", "failed to update "+field, MapError(err))
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("field", field))
	return task, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task   domain.Task
		noteID uuid.NullUUID
		due    *domain.Date
		status string
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&noteID,
		&task.Description,
		&due,
		&status,
		&task.IsImportant,
		&task.CreatedAt,
	); err != nil {
		return nil, err
	}

	if noteID.Valid {
		id := noteID.UUID
		task.NoteID = &id
	}
	task.DueDate = due
	task.Status = domain.TaskStatus(status)

	return &task, nil
}

// queryTasks runs a task query and scans every row. It returns an empty
// slice rather than nil when there are no rows.
func queryTasks(ctx context.Context, db store.DBTX, log *slog.Logger, query string, args ...any) ([]*domain.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}
