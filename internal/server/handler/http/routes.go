package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dkoval/postline/internal/middleware"
)

// NewRouter constructs the HTTP handler for the publishing service.
//
// Routes:
//
//	POST   /api/posts             → postHandler.Create
//	GET    /api/posts             → postHandler.List
//	DELETE /api/posts/{id}        → postHandler.Delete
//	GET    /api/settings          → settingsHandler.Get
//	PUT    /api/settings          → settingsHandler.Save
//	POST   /api/publish           → publishHandler.Publish
//	POST   /api/publish/test      → publishHandler.Test
//	POST   /internal/publish/due  → publishHandler.RunDue (scheduler token)
//
// Everything under /api requires a valid bearer token; the batch trigger is
// instead guarded by the shared scheduler token inside the handler.
func NewRouter(
	postHandler *PostHandler,
	settingsHandler *SettingsHandler,
	publishHandler *PublishHandler,
	jwtSecret string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Use(middleware.BearerAuth(jwtSecret))

		r.Post("/posts", postHandler.Create)
		r.Get("/posts", postHandler.List)
		r.Delete("/posts/{id}", postHandler.Delete)

		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Save)

		r.Post("/publish", publishHandler.Publish)
		r.Post("/publish/test", publishHandler.Test)
	})

	r.Post("/internal/publish/due", publishHandler.RunDue)

	return r
}
