package api

import (
	"log/slog"
	"net/http"

	"github.com/taskflow-ai/taskflow-api/internal/api/shared"
	"github.com/taskflow-ai/taskflow-api/internal/platform/logger"
	"github.com/taskflow-ai/taskflow-api/internal/service"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteService service.NoteService
	logger      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService service.NoteService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NoteHandler")
	}

	return &NoteHandler{
		noteService: noteService,
		logger:      logger.With(slog.String("component", "note_handler")),
	}
}

// ProcessNote handles POST /notes/process requests.
// It summarizes the notes, extracts tasks and stores the note.
func (h *NoteHandler) ProcessNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ProcessNoteRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.noteService.ProcessNote(r.Context(), userID, req.Text, req.SaveTasks)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process notes")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, processResultToResponse(result))
}

// GetNote handles GET /notes/{id} requests
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(r.Context(), userID, noteID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// SaveTasks handles POST /notes/{id}/tasks requests
func (h *NoteHandler) SaveTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, noteID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SaveTasksRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	saved, err := h.noteService.SaveTasks(r.Context(), userID, noteID, toExtractedTasks(req.Tasks))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, tasksToResponse(saved))
}

// ListNotesWithTasks handles GET /tasks/notes requests
func (h *NoteHandler) ListNotesWithTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	notes, err := h.noteService.ListNotesWithTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notesWithTasksToResponse(notes))
}
