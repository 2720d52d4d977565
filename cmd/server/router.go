package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api"
	apimiddleware "github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/middleware"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.hasher, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	progressHandler := api.NewProgressHandler(app.reviewService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/items", reviewHandler.CreateItem)
			r.Get("/items/due", reviewHandler.DueItems)
			r.Post("/items/{id}/answer", reviewHandler.SubmitAnswer)
			r.Post("/items/{id}/reset", reviewHandler.ResetItem)
			r.Get("/schedule", reviewHandler.Schedule)
			r.Get("/progress", progressHandler.GetProgress)
			r.Post("/activity", progressHandler.RecordActivity)
		})
	})

	return r
}
