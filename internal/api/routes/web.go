package routes

import (
	"github.com/go-chi/chi/v5"

	"Postboard/internal/web"
)

// RegisterWebRoutes registers the posts page, the form target, and static assets.
func RegisterWebRoutes(r chi.Router, handlers *web.Handlers) {
	// Posts page: list view + form view
	r.Get("/", handlers.PostsPageHandler)

	// Form submission target; redirects back to /
	r.Post("/posts", handlers.CreatePostHandler)

	// Embedded stylesheet
	r.Get("/static/*", web.StaticFileServer().ServeHTTP)
}
