package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskflow-ai/taskflow-api/internal/api"
	apiMiddleware "github.com/taskflow-ai/taskflow-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.MetricsMiddleware(app.metrics))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier)
	noteHandler := api.NewNoteHandler(app.noteService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/notes/process", noteHandler.ProcessNote)
		r.Get("/notes/{id}", noteHandler.GetNote)
		r.Post("/notes/{id}/tasks", noteHandler.SaveTasks)

		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/notes", noteHandler.ListNotesWithTasks)
		r.Get("/tasks/daily-digest", taskHandler.DailyDigest)
		r.Get("/tasks/by-note/{id}", taskHandler.ListByNote)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Put("/tasks/{id}/status", taskHandler.UpdateStatus)
		r.Put("/tasks/{id}/importance", taskHandler.UpdateImportance)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
