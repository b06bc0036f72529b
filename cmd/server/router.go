package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careerforge/pitch-api/internal/api"
	apiMiddleware "github.com/careerforge/pitch-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceID)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	draftHandler := api.NewDraftHandler(app.draftService, app.logger)
	generationHandler := api.NewGenerationHandler(
		app.draftService, app.dispatcher, app.reconciler, app.poller, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Provider callback (public; validated by task ID)
		r.Post("/callbacks/generation", generationHandler.Callback)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/pitches", draftHandler.Create)
			r.Get("/pitches/{id}", draftHandler.Get)
			r.Put("/pitches/{id}", draftHandler.Update)
			r.Delete("/pitches/{id}", draftHandler.Delete)

			r.Post("/pitches/{id}/generate", generationHandler.Generate)
			r.Get("/pitches/{id}/result", generationHandler.Result)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
