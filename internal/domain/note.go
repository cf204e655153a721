package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID     = errors.New("note ID cannot be empty")
	ErrEmptyNoteUserID = errors.New("note user ID cannot be empty")
	ErrEmptyNoteText   = errors.New("note text cannot be empty")
)

// Note is a block of meeting notes submitted by a user together with the
// summary derived from it. Notes are immutable once created.
type Note struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	OriginalText string    `json:"original_text"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// NoteWithTasks is a note together with the tasks that reference it.
type NoteWithTasks struct {
	Note
	Tasks []*Task `json:"tasks"`
}

// NewNote creates a new Note owned by userID.
// It generates a new UUID and sets the creation timestamp.
// Returns an error if validation fails.
func NewNote(userID uuid.UUID, originalText, summary string) (*Note, error) {
	note := &Note{
		ID:           uuid.New(),
		UserID:       userID,
		OriginalText: originalText,
		Summary:      summary,
		CreatedAt:    time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyNoteUserID
	}

	if strings.TrimSpace(n.OriginalText) == "" {
		return ErrEmptyNoteText
	}

	return nil
}
