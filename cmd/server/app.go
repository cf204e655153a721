package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskflow-ai/taskflow-api/internal/config"
	"github.com/taskflow-ai/taskflow-api/internal/extraction"
	"github.com/taskflow-ai/taskflow-api/internal/generation"
	"github.com/taskflow-ai/taskflow-api/internal/platform/gemini"
	"github.com/taskflow-ai/taskflow-api/internal/platform/metrics"
	"github.com/taskflow-ai/taskflow-api/internal/platform/openai"
	"github.com/taskflow-ai/taskflow-api/internal/platform/postgres"
	"github.com/taskflow-ai/taskflow-api/internal/service"
	"github.com/taskflow-ai/taskflow-api/internal/service/auth"
	"github.com/taskflow-ai/taskflow-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	noteStore store.NoteStore
	taskStore store.TaskStore

	verifier    auth.Verifier
	noteService service.NoteService
	taskService service.TaskService
}

// newApplication wires stores, the extraction pipeline and services on top
// of an established database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.verifier, err = auth.NewVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	pipeline, err := newExtractionPipeline(ctx, cfg, logger, app.metrics)
	if err != nil {
		return nil, err
	}

	app.noteService, err = service.NewNoteService(db, pipeline, app.noteStore, app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, cfg.Digest, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newProvider creates the language model provider selected by cfg.Provider.
func newProvider(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewProvider(ctx, logger, cfg)
	case config.ProviderOpenAI:
		return openai.NewProvider(logger, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// newExtractionPipeline builds the provider, client and pipeline. Prompt
// templates are read from cfg.LLM.PromptDir when it is set. m may be nil.
func newExtractionPipeline(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*extraction.Pipeline, error) {
	provider, err := newProvider(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm provider: %w", err)
	}

	client, err := generation.NewClient(provider, logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	summaryPrompt, err := generation.LoadPromptTemplate(generation.SummaryTemplate, cfg.LLM.PromptDir)
	if err != nil {
		return nil, err
	}
	extractPrompt, err := generation.LoadPromptTemplate(generation.ExtractTasksTemplate, cfg.LLM.PromptDir)
	if err != nil {
		return nil, err
	}

	pipeline, err := extraction.NewPipeline(client, logger,
		extraction.WithPrompts(summaryPrompt, extractPrompt),
		extraction.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction pipeline: %w", err)
	}

	logger.Info("extraction pipeline initialized",
		"provider", provider.Name(),
		"model", cfg.LLM.ModelName,
		"custom_prompts", cfg.LLM.PromptDir != "")
	return pipeline, nil
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
