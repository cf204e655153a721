package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogGooseLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("OK   %s (%s)\n", "00001_create_meeting_notes.sql", "12ms")
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "00001_create_meeting_notes.sql")

	buf.Reset()
	require.NotPanics(t, func() { l.Fatalf("failed: %v", "boom") })
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "failed: boom")
}

func TestSlogGooseLoggerDefaultsToGlobalLogger(t *testing.T) {
	t.Parallel()

	l := &slogGooseLogger{}
	assert.Equal(t, slog.Default(), l.log())
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	err := runMigrations(context.Background(), nil, "create", slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestIsMigrationCommand(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"up", "down", "status", "version", "reset"} {
		assert.True(t, isMigrationCommand(c), c)
	}
	assert.False(t, isMigrationCommand("redo"))
	assert.False(t, isMigrationCommand(""))
}
