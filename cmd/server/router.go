package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/teagan-pado/contacts-application/internal/api"
	apiMiddleware "github.com/teagan-pado/contacts-application/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	contactHandler := api.NewContactHandler(app.contactService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// All contact endpoints require an authenticated user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/contact-books/{bookID}/contacts", func(r chi.Router) {
				r.Post("/", contactHandler.CreateContact)
				r.Get("/{contactID}", contactHandler.GetContact)
				r.Put("/{contactID}", contactHandler.UpdateContact)
				r.Delete("/{contactID}", contactHandler.DeleteContact)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
