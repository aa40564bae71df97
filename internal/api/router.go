package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Entry routes
			r.Post("/entries", apiHandler.CreateEntryHandler)
			r.Get("/entries", apiHandler.ListEntriesHandler)
			r.Get("/entries/{entryID}", apiHandler.GetEntryHandler)
			r.Put("/entries/{entryID}", apiHandler.UpdateEntryHandler)
			r.Delete("/entries/{entryID}", apiHandler.DeleteEntryHandler)

			// Streak and reporting routes
			r.Get("/streak", apiHandler.GetStreakHandler)
			r.Get("/reports/summary", apiHandler.SummaryHandler)
			r.Get("/reports/missed-days", apiHandler.MissedDaysHandler)
			r.Get("/export", apiHandler.ExportHandler)
		})
	})

	return r
}
