package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/service"
)

// ProcessNoteRequest defines the payload for POST /notes/process.
type ProcessNoteRequest struct {
	Text string `json:"text" validate:"required"`
	// SaveTasks stores the extracted tasks along with the note.
	SaveTasks bool `json:"save_tasks"`
}

// TaskInput is a task supplied by the client for saving against a note.
type TaskInput struct {
	Description string       `json:"description" validate:"required"`
	DueDate     *domain.Date `json:"due_date"`
}

// SaveTasksRequest defines the payload for POST /notes/{id}/tasks.
type SaveTasksRequest struct {
	Tasks []TaskInput `json:"tasks" validate:"required,dive"`
}

// UpdateTaskStatusRequest defines the payload for PUT /tasks/{id}/status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open completed"`
}

// UpdateTaskImportanceRequest defines the payload for PUT /tasks/{id}/importance.
// IsImportant is a pointer so that an omitted field fails validation
// instead of silently meaning false.
type UpdateTaskImportanceRequest struct {
	IsImportant *bool `json:"is_important" validate:"required"`
}

// ExtractedTaskResponse is a task as emitted by extraction, before saving.
type ExtractedTaskResponse struct {
	Description string       `json:"description"`
	DueDate     *domain.Date `json:"due_date"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          uuid.UUID    `json:"id"`
	NoteID      *uuid.UUID   `json:"note_id"`
	Description string       `json:"description"`
	DueDate     *domain.Date `json:"due_date"`
	Status      string       `json:"status"`
	IsImportant bool         `json:"is_important"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NoteResponse represents a stored note.
type NoteResponse struct {
	NoteID       uuid.UUID `json:"note_id"`
	OriginalText string    `json:"original_text"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProcessNoteResponse is returned by POST /notes/process.
type ProcessNoteResponse struct {
	NoteResponse
	ExtractedTasks  []ExtractedTaskResponse `json:"extracted_tasks"`
	SavedTasks      []TaskResponse          `json:"saved_tasks,omitempty"`
	SummaryDegraded bool                    `json:"summary_degraded"`
	TasksDegraded   bool                    `json:"tasks_degraded"`
}

// NoteWithTasksResponse is a note together with its tasks.
type NoteWithTasksResponse struct {
	NoteResponse
	Tasks []TaskResponse `json:"tasks"`
}

// DigestTaskResponse is a ranked task with the digest bucket it landed in.
type DigestTaskResponse struct {
	TaskResponse
	Bucket string `json:"bucket"`
}

// DailyDigestResponse is returned by GET /tasks/daily-digest.
type DailyDigestResponse struct {
	Date      domain.Date          `json:"date"`
	WeekStart domain.Date          `json:"week_start"`
	WeekEnd   domain.Date          `json:"week_end"`
	Tasks     []DigestTaskResponse `json:"tasks"`
}

func toExtractedTasks(inputs []TaskInput) []domain.ExtractedTask {
	tasks := make([]domain.ExtractedTask, len(inputs))
	for i, in := range inputs {
		tasks[i] = domain.ExtractedTask{Description: in.Description, DueDate: in.DueDate}
	}
	return tasks
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		NoteID:      task.NoteID,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      string(task.Status),
		IsImportant: task.IsImportant,
		CreatedAt:   task.CreatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = taskToResponse(task)
	}
	return out
}

func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		NoteID:       note.ID,
		OriginalText: note.OriginalText,
		Summary:      note.Summary,
		CreatedAt:    note.CreatedAt,
	}
}

func processResultToResponse(result *service.ProcessNoteResult) ProcessNoteResponse {
	extracted := make([]ExtractedTaskResponse, len(result.Extracted))
	for i, task := range result.Extracted {
		extracted[i] = ExtractedTaskResponse{Description: task.Description, DueDate: task.DueDate}
	}

	resp := ProcessNoteResponse{
		NoteResponse:    noteToResponse(result.Note),
		ExtractedTasks:  extracted,
		SummaryDegraded: result.SummaryDegraded,
		TasksDegraded:   result.TasksDegraded,
	}
	if result.Saved != nil {
		resp.SavedTasks = tasksToResponse(result.Saved)
	}
	return resp
}

func notesWithTasksToResponse(notes []*domain.NoteWithTasks) []NoteWithTasksResponse {
	out := make([]NoteWithTasksResponse, len(notes))
	for i, n := range notes {
		out[i] = NoteWithTasksResponse{
			NoteResponse: noteToResponse(&n.Note),
			Tasks:        tasksToResponse(n.Tasks),
		}
	}
	return out
}

func digestToResponse(d *service.Digest) DailyDigestResponse {
	tasks := make([]DigestTaskResponse, len(d.Entries))
	for i, e := range d.Entries {
		tasks[i] = DigestTaskResponse{
			TaskResponse: taskToResponse(e.Task),
			Bucket:       string(e.Bucket),
		}
	}
	return DailyDigestResponse{
		Date:      d.Date,
		WeekStart: d.WeekStart,
		WeekEnd:   d.WeekEnd,
		Tasks:     tasks,
	}
}
