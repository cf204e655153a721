package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/service"
)

type extractOutput struct {
	Summary         string                 `json:"summary"`
	Tasks           []domain.ExtractedTask `json:"tasks"`
	SummaryDegraded bool                   `json:"summary_degraded"`
	TasksDegraded   bool                   `json:"tasks_degraded"`
}

// runExtract reads notes from file (or in when file is empty), runs the
// extraction pipeline and writes the result to out as indented JSON.
func runExtract(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	file string,
	in io.Reader,
	out io.Writer,
) error {
	pipeline, err := newExtractionPipeline(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	return extractTo(ctx, pipeline, file, in, out)
}

func extractTo(ctx context.Context, extractor service.Extractor, file string, in io.Reader, out io.Writer) error {
	notes, err := readNotes(file, in)
	if err != nil {
		return err
	}

	result, err := extractor.Extract(ctx, notes)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(extractOutput{
		Summary:         result.Summary,
		Tasks:           result.Tasks,
		SummaryDegraded: result.SummaryDegraded,
		TasksDegraded:   result.TasksDegraded,
	})
}

func readNotes(file string, in io.Reader) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read notes file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read notes from stdin: %w", err)
	}
	return string(data), nil
}
