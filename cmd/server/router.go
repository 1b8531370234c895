package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jmlarson/deckard/internal/api"
	apimiddleware "github.com/jmlarson/deckard/internal/api/middleware"
)

// Rate limit for the unauthenticated auth endpoints.
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// setupRouter builds the chi router with middleware, handlers, and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	noteHandler := api.NewNoteHandler(app.noteService, app.logger)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)
	rateLimiter := apimiddleware.NewRateLimiter(
		apimiddleware.NewMemoryTTLStore(),
		authRateLimit,
		authRateWindow,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Limit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.RefreshToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Card management
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards", cardHandler.ListCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Review flow
			r.Get("/cards/next", reviewHandler.GetNextCards)
			r.Post("/cards/{id}/answer", reviewHandler.SubmitAnswer)
			r.Post("/reviews/sessions", reviewHandler.RecordSession)

			// Notes and card generation
			r.Post("/notes", noteHandler.CreateNote)
			r.Get("/notes/{id}", noteHandler.GetNote)
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
