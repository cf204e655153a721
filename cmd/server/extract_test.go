package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/extraction"
)

type stubExtractor struct {
	got    string
	result *extraction.Result
	err    error
}

func (s *stubExtractor) Extract(ctx context.Context, notesText string) (*extraction.Result, error) {
	s.got = notesText
	return s.result, s.err
}

func TestExtractToFromStdin(t *testing.T) {
	t.Parallel()

	due := domain.NewDate(2025, time.June, 12)
	ex := &stubExtractor{result: &extraction.Result{
		Summary: "Launch planning.",
		Tasks:   []domain.ExtractedTask{{Description: "Send the deck", DueDate: &due}},
	}}

	var out bytes.Buffer
	err := extractTo(context.Background(), ex, "", strings.NewReader("Alice sends the deck Thursday."), &out)
	require.NoError(t, err)

	assert.Equal(t, "Alice sends the deck Thursday.", ex.got)
	assert.JSONEq(t, `{
		"summary": "Launch planning.",
		"tasks": [{"description": "Send the deck", "due_date": "2025-06-12"}],
		"summary_degraded": false,
		"tasks_degraded": false
	}`, out.String())
}

func TestExtractToFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("notes from file"), 0o600))

	ex := &stubExtractor{result: &extraction.Result{
		Summary:       extraction.SummaryFallback,
		Tasks:         []domain.ExtractedTask{},
		TasksDegraded: true,
	}}

	var out bytes.Buffer
	require.NoError(t, extractTo(context.Background(), ex, path, strings.NewReader("ignored"), &out))
	assert.Equal(t, "notes from file", ex.got)
	assert.Contains(t, out.String(), `"tasks": []`)
	assert.Contains(t, out.String(), `"tasks_degraded": true`)
}

func TestExtractToPropagatesErrors(t *testing.T) {
	t.Parallel()

	ex := &stubExtractor{err: extraction.ErrEmptyNotes}
	err := extractTo(context.Background(), ex, "", strings.NewReader("  "), &bytes.Buffer{})
	assert.ErrorIs(t, err, extraction.ErrEmptyNotes)

	err = extractTo(context.Background(), ex, filepath.Join(t.TempDir(), "missing.txt"), nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read notes file")
}
