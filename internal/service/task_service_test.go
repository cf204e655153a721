package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/domain/digest"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
	"github.com/taskflow-ai/taskflow-api/internal/platform/metrics"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

func newTestTaskService(t *testing.T, tasks *MockTaskStore, cfg config.DigestConfig, now time.Time, m *metrics.Metrics) *taskServiceImpl {
	t.Helper()

	svc, err := NewTaskService(tasks, cfg, m, logger.Discard())
	require.NoError(t, err)

	impl := svc.(*taskServiceImpl)
	impl.now = func() time.Time { return now }
	return impl
}

func defaultDigestConfig() config.DigestConfig {
	return config.DigestConfig{WeekStart: "monday", Timezone: "UTC"}
}

func TestNewTaskService(t *testing.T) {
	t.Parallel()

	_, err := NewTaskService(nil, defaultDigestConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrNilDependency)

	_, err = NewTaskService(&MockTaskStore{}, config.DigestConfig{WeekStart: "someday", Timezone: "UTC"}, nil, nil)
	assert.Error(t, err)

	_, err = NewTaskService(&MockTaskStore{}, config.DigestConfig{WeekStart: "monday", Timezone: "Mars/Olympus"}, nil, nil)
	assert.Error(t, err)
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tasks := &MockTaskStore{}
	svc := newTestTaskService(t, tasks, defaultDigestConfig(), time.Now(), nil)

	completed := domain.TaskStatusCompleted
	listed := []*domain.Task{{ID: uuid.New(), Status: completed}}
	tasks.On("List", mock.Anything, userID, store.TaskFilter{Status: &completed}).Return(listed, nil)
	tasks.On("List", mock.Anything, userID, store.TaskFilter{}).Return([]*domain.Task{}, nil)

	got, err := svc.ListTasks(context.Background(), userID, &completed)
	require.NoError(t, err)
	assert.Equal(t, listed, got)

	got, err = svc.ListTasks(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	bogus := domain.TaskStatus("archived")
	_, err = svc.ListTasks(context.Background(), userID, &bogus)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	userID, taskID := uuid.New(), uuid.New()
	tasks := &MockTaskStore{}
	svc := newTestTaskService(t, tasks, defaultDigestConfig(), time.Now(), nil)

	updated := &domain.Task{ID: taskID, Status: domain.TaskStatusCompleted, IsImportant: true}
	tasks.On("UpdateStatus", mock.Anything, userID, taskID, domain.TaskStatusCompleted).Return(updated, nil)
	tasks.On("UpdateImportance", mock.Anything, userID, taskID, true).Return(updated, nil)
	tasks.On("UpdateStatus", mock.Anything, userID, mock.Anything, domain.TaskStatusOpen).Return(nil, store.ErrTaskNotFound)

	got, err := svc.UpdateStatus(context.Background(), userID, taskID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Same(t, updated, got)

	got, err = svc.UpdateImportance(context.Background(), userID, taskID, true)
	require.NoError(t, err)
	assert.Same(t, updated, got)

	_, err = svc.UpdateStatus(context.Background(), userID, uuid.New(), domain.TaskStatusOpen)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = svc.UpdateStatus(context.Background(), userID, taskID, domain.TaskStatus("done"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListByNote(t *testing.T) {
	t.Parallel()

	userID, noteID := uuid.New(), uuid.New()
	tasks := &MockTaskStore{}
	svc := newTestTaskService(t, tasks, defaultDigestConfig(), time.Now(), nil)

	listed := []*domain.Task{{ID: uuid.New(), NoteID: &noteID}}
	tasks.On("ListByNote", mock.Anything, userID, noteID).Return(listed, nil)

	got, err := svc.ListByNote(context.Background(), userID, noteID)
	require.NoError(t, err)
	assert.Equal(t, listed, got)
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	userID, taskID := uuid.New(), uuid.New()
	tasks := &MockTaskStore{}
	svc := newTestTaskService(t, tasks, defaultDigestConfig(), time.Now(), nil)

	task := &domain.Task{ID: taskID, UserID: userID}
	tasks.On("GetByID", mock.Anything, userID, taskID).Return(task, nil)
	tasks.On("GetByID", mock.Anything, userID, mock.Anything).Return(nil, store.ErrTaskNotFound)

	got, err := svc.GetTask(context.Background(), userID, taskID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	_, err = svc.GetTask(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestDailyDigest(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	date := func(d int) *domain.Date {
		v := domain.NewDate(2025, time.June, d)
		return &v
	}

	// Store order: importance desc, due date asc nulls last.
	important := &domain.Task{ID: uuid.New(), Description: "important", IsImportant: true, DueDate: date(11)}
	overdue := &domain.Task{ID: uuid.New(), Description: "overdue", DueDate: date(7)}
	today := &domain.Task{ID: uuid.New(), Description: "today", DueDate: date(10)}
	thisWeek := &domain.Task{ID: uuid.New(), Description: "this week", DueDate: date(13)}
	undated := &domain.Task{ID: uuid.New(), Description: "undated"}
	listed := []*domain.Task{important, overdue, today, thisWeek, undated}

	open := domain.TaskStatusOpen

	t.Run("ranks open tasks for today", func(t *testing.T) {
		t.Parallel()

		tasks := &MockTaskStore{}
		m := metrics.New()
		// 2025-06-10 is a Tuesday.
		svc := newTestTaskService(t, tasks, defaultDigestConfig(), time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC), m)
		tasks.On("List", mock.Anything, userID, store.TaskFilter{Status: &open}).Return(listed, nil)

		result, err := svc.DailyDigest(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, domain.NewDate(2025, time.June, 10), result.Date)
		assert.Equal(t, domain.NewDate(2025, time.June, 9), result.WeekStart)
		assert.Equal(t, domain.NewDate(2025, time.June, 15), result.WeekEnd)

		require.Len(t, result.Entries, 5)
		assert.Equal(t, []digest.Entry{
			{Task: important, Bucket: digest.BucketImportant},
			{Task: today, Bucket: digest.BucketDueToday},
			{Task: thisWeek, Bucket: digest.BucketDueThisWeek},
			{Task: overdue, Bucket: digest.BucketRemaining},
			{Task: undated, Bucket: digest.BucketRemaining},
		}, result.Entries)

		count, err := testutil.GatherAndCount(m.Registry(), "taskflow_digest_tasks")
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("uses configured timezone", func(t *testing.T) {
		t.Parallel()

		tasks := &MockTaskStore{}
		cfg := config.DigestConfig{WeekStart: "monday", Timezone: "America/Los_Angeles"}
		// 03:00 UTC on the 11th is still the 10th in Los Angeles.
		svc := newTestTaskService(t, tasks, cfg, time.Date(2025, time.June, 11, 3, 0, 0, 0, time.UTC), nil)
		tasks.On("List", mock.Anything, userID, store.TaskFilter{Status: &open}).Return([]*domain.Task{today}, nil)

		result, err := svc.DailyDigest(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewDate(2025, time.June, 10), result.Date)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, digest.BucketDueToday, result.Entries[0].Bucket)
	})

	t.Run("sunday week start", func(t *testing.T) {
		t.Parallel()

		tasks := &MockTaskStore{}
		cfg := config.DigestConfig{WeekStart: "sunday", Timezone: "UTC"}
		svc := newTestTaskService(t, tasks, cfg, time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC), nil)
		tasks.On("List", mock.Anything, userID, store.TaskFilter{Status: &open}).Return([]*domain.Task{}, nil)

		result, err := svc.DailyDigest(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewDate(2025, time.June, 8), result.WeekStart)
		assert.Equal(t, domain.NewDate(2025, time.June, 14), result.WeekEnd)
		assert.Empty(t, result.Entries)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		tasks := &MockTaskStore{}
		svc := newTestTaskService(t, tasks, defaultDigestConfig(), time.Now(), nil)
		tasks.On("List", mock.Anything, userID, mock.Anything).Return(nil, store.ErrTransactionFailed)

		_, err := svc.DailyDigest(context.Background(), userID)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
	})
}
