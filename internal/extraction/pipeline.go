// Package extraction turns free-text meeting notes into a summary and an
// ordered list of action items.
//
// Summarization and task extraction are two independent model calls that
// run concurrently. Model-origin failures never fail the pipeline: a failed
// summary becomes SummaryFallback and failed extraction becomes an empty
// task list. Only an empty input is rejected.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/generation"
	"github.com/taskflow-ai/taskflow-api/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

// SummaryFallback replaces the summary when summarization fails.
const SummaryFallback = "Error generating summary."

// Parts and reasons reported when a result degrades.
const (
	PartSummary = "summary"
	PartTasks   = "tasks"

	ReasonSchema   = "schema"
	ReasonProvider = "provider"
)

// ErrEmptyNotes is returned when the notes text is empty or whitespace.
var ErrEmptyNotes = fmt.Errorf("%w: notes text cannot be empty", domain.ErrValidation)

// Invoker performs a single templated model call.
// *generation.Client implements it.
type Invoker interface {
	Invoke(ctx context.Context, tmpl *generation.PromptTemplate, vars any, out generation.Output) (*generation.Result, error)
}

// Result is the normalized output of one extraction.
type Result struct {
	Summary string
	// Tasks is never nil and keeps the order the model emitted.
	Tasks []domain.ExtractedTask

	SummaryDegraded bool
	TasksDegraded   bool
}

// Pipeline runs the summarization and task extraction calls.
type Pipeline struct {
	invoker        Invoker
	summaryPrompt  *generation.PromptTemplate
	extractPrompt  *generation.PromptTemplate
	taskListSchema generation.Schema
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPrompts replaces the summary and extraction templates.
func WithPrompts(summary, extract *generation.PromptTemplate) Option {
	return func(p *Pipeline) {
		if summary != nil {
			p.summaryPrompt = summary
		}
		if extract != nil {
			p.extractPrompt = extract
		}
	}
}

// WithMetrics records degradations in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a Pipeline using the built-in prompt templates unless
// WithPrompts is given.
func NewPipeline(invoker Invoker, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if invoker == nil {
		return nil, errors.New("invoker cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	p := &Pipeline{
		invoker:        invoker,
		summaryPrompt:  generation.MustLoadPromptTemplate(generation.SummaryTemplate),
		extractPrompt:  generation.MustLoadPromptTemplate(generation.ExtractTasksTemplate),
		taskListSchema: generation.NewTaskListSchema(),
		logger:         logger.With("component", "extraction_pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

type promptVars struct {
	NotesText string
}

// Extract summarizes notesText and extracts its action items.
//
// The only error it returns is ErrEmptyNotes. Cancellation of ctx is
// handled like any other model failure and produces fallback values.
func (p *Pipeline) Extract(ctx context.Context, notesText string) (*Result, error) {
	if strings.TrimSpace(notesText) == "" {
		return nil, ErrEmptyNotes
	}

	vars := promptVars{NotesText: notesText}
	result := &Result{}

	// Neither goroutine returns an error, so a failure in one never
	// cancels the other.
	var g errgroup.Group

	g.Go(func() error {
		res, err := p.invoker.Invoke(ctx, p.summaryPrompt, vars, generation.TextOutput())
		if err != nil {
			result.Summary = SummaryFallback
			result.SummaryDegraded = true
			p.degraded(ctx, PartSummary, err)
			return nil
		}
		result.Summary = res.Text
		return nil
	})

	g.Go(func() error {
		res, err := p.invoker.Invoke(ctx, p.extractPrompt, vars, generation.StructuredOutput(p.taskListSchema))
		if err != nil {
			result.Tasks = []domain.ExtractedTask{}
			result.TasksDegraded = true
			p.degraded(ctx, PartTasks, err)
			return nil
		}

		tasks, ok := res.Value.([]domain.ExtractedTask)
		if !ok {
			result.Tasks = []domain.ExtractedTask{}
			result.TasksDegraded = true
			p.degraded(ctx, PartTasks,
				fmt.Errorf("%w: unexpected value type %T", generation.ErrSchemaValidation, res.Value))
			return nil
		}
		result.Tasks = tasks
		return nil
	})

	_ = g.Wait()

	if result.Tasks == nil {
		result.Tasks = []domain.ExtractedTask{}
	}

	p.logger.InfoContext(ctx, "notes extracted",
		"notes_length", len(notesText),
		"task_count", len(result.Tasks),
		"summary_degraded", result.SummaryDegraded,
		"tasks_degraded", result.TasksDegraded)

	return result, nil
}

func (p *Pipeline) degraded(ctx context.Context, part string, err error) {
	reason := ReasonProvider
	if errors.Is(err, generation.ErrSchemaValidation) {
		reason = ReasonSchema
	}

	p.logger.WarnContext(ctx, "extraction degraded to fallback",
		"part", part,
		"reason", reason,
		"error", err)
	p.metrics.IncExtractionDegraded(part, reason)
}
