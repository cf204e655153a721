package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the completion state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusCompleted TaskStatus = "completed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID      = errors.New("task user ID cannot be empty")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
)

// ExtractedTask is an action item produced by the extraction pipeline.
// It has no identity or owner until it is persisted as a Task.
type ExtractedTask struct {
	Description string `json:"description"`
	DueDate     *Date  `json:"due_date"`
}

// Validate checks that the extracted task carries a description.
func (t ExtractedTask) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTaskDescription
	}
	return nil
}

// Task is a persisted action item owned by a single user.
// NoteID is a weak reference to the note the task was extracted from.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	NoteID      *uuid.UUID `json:"note_id,omitempty"`
	Description string     `json:"description"`
	DueDate     *Date      `json:"due_date"`
	Status      TaskStatus `json:"status"`
	IsImportant bool       `json:"is_important"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates an open, not-important Task for userID from an extracted
// task. noteID may be nil for tasks that did not come from a note.
func NewTask(userID uuid.UUID, noteID *uuid.UUID, extracted ExtractedTask) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		NoteID:      noteID,
		Description: strings.TrimSpace(extracted.Description),
		DueDate:     extracted.DueDate,
		Status:      TaskStatusOpen,
		IsImportant: false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTaskDescription
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusOpen, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
