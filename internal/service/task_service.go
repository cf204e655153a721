package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/domain/digest"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
	"github.com/taskflow-ai/taskflow-api/internal/platform/metrics"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

// Digest is a user's open tasks ranked for a single day.
type Digest struct {
	Date      domain.Date
	WeekStart domain.Date
	WeekEnd   domain.Date
	Entries   []digest.Entry
}

// TaskService provides task-related operations
type TaskService interface {
	// ListTasks returns the user's tasks in store order, optionally
	// restricted to one status.
	ListTasks(ctx context.Context, userID uuid.UUID, status *domain.TaskStatus) ([]*domain.Task, error)

	// GetTask returns one of the user's tasks.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListByNote returns the user's tasks extracted from a note.
	ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*domain.Task, error)

	// UpdateStatus sets a task's status.
	UpdateStatus(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// UpdateImportance sets a task's importance flag.
	UpdateImportance(ctx context.Context, userID, taskID uuid.UUID, important bool) (*domain.Task, error)

	// DailyDigest ranks the user's open tasks for today in the configured zone.
	DailyDigest(ctx context.Context, userID uuid.UUID) (*Digest, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	params    digest.Params
	location  *time.Location
	metrics   *metrics.Metrics
	now       func() time.Time
	logger    *slog.Logger
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService using the digest settings in cfg.
// m may be nil.
func NewTaskService(
	taskStore store.TaskStore,
	cfg config.DigestConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("%w: taskStore", ErrNilDependency)
	}

	weekStart, err := digest.ParseWeekday(cfg.WeekStart)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		params:    digest.Params{WeekStart: weekStart},
		location:  loc,
		metrics:   m,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	status *domain.TaskStatus,
) ([]*domain.Task, error) {
	if status != nil && !domain.IsValidTaskStatus(*status) {
		return nil, NewServiceError("task", "list_tasks", "invalid status filter",
			domain.NewValidationError("status", "must be open or completed", domain.ErrValidation))
	}

	tasks, err := s.taskStore.List(ctx, userID, store.TaskFilter{Status: status})
	if err != nil {
		return nil, NewServiceError("task", "list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, NewServiceError("task", "get_task", "failed to get task", err)
	}
	return task, nil
}

// ListByNote implements TaskService.ListByNote
func (s *taskServiceImpl) ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByNote(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("task", "list_by_note", "failed to list tasks for note", err)
	}
	return tasks, nil
}

// UpdateStatus implements TaskService.UpdateStatus
func (s *taskServiceImpl) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsValidTaskStatus(status) {
		return nil, NewServiceError("task", "update_status", "invalid status",
			domain.NewValidationError("status", "must be open or completed", domain.ErrValidation))
	}

	task, err := s.taskStore.UpdateStatus(ctx, userID, taskID, status)
	if err != nil {
		return nil, NewServiceError("task", "update_status", "failed to update task status", err)
	}

	log.Info("task status updated",
		slog.String("task_id", taskID.String()),
		slog.String("status", string(status)))
	return task, nil
}

// UpdateImportance implements TaskService.UpdateImportance
func (s *taskServiceImpl) UpdateImportance(
	ctx context.Context,
	userID, taskID uuid.UUID,
	important bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.UpdateImportance(ctx, userID, taskID, important)
	if err != nil {
		return nil, NewServiceError("task", "update_importance", "failed to update task importance", err)
	}

	log.Info("task importance updated",
		slog.String("task_id", taskID.String()),
		slog.Bool("is_important", important))
	return task, nil
}

// DailyDigest implements TaskService.DailyDigest
func (s *taskServiceImpl) DailyDigest(ctx context.Context, userID uuid.UUID) (*Digest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	open := domain.TaskStatusOpen
	tasks, err := s.taskStore.List(ctx, userID, store.TaskFilter{Status: &open})
	if err != nil {
		return nil, NewServiceError("task", "daily_digest", "failed to list open tasks", err)
	}

	today := domain.DateOf(s.now().In(s.location))
	weekStart, weekEnd := s.params.WeekBounds(today)
	entries := digest.RankEntries(tasks, today, s.params)

	counts := digest.Counts(entries)
	for _, bucket := range digest.Buckets {
		s.metrics.ObserveDigestBucket(string(bucket), counts[bucket])
	}

	log.Debug("daily digest computed",
		slog.String("user_id", userID.String()),
		slog.String("date", today.String()),
		slog.Int("important", counts[digest.BucketImportant]),
		slog.Int("due_today", counts[digest.BucketDueToday]),
		slog.Int("due_this_week", counts[digest.BucketDueThisWeek]),
		slog.Int("remaining", counts[digest.BucketRemaining]))

	return &Digest{
		Date:      today,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Entries:   entries,
	}, nil
}
