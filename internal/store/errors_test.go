package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrNoteNotFound", ErrNoteNotFound, true},
		{"wrapped ErrTaskNotFound", fmt.Errorf("update status: %w", ErrTaskNotFound), true},
		{"ErrDuplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestEntitySpecificErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNoteNotFound, ErrTaskNotFound))
	assert.False(t, errors.Is(ErrTaskNotFound, ErrNoteNotFound))
	assert.True(t, IsDuplicateError(fmt.Errorf("x: %w", ErrDuplicate)))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("task", "update", "failed to update status", cause)

	assert.Equal(t, "update operation on task failed: failed to update status: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("note", "create", "invalid", nil)
	assert.Equal(t, "create operation on note failed: invalid", bare.Error())
}
