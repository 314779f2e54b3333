package api

import (
	"net/http"

	"github.com/bcnelson/styla-directory/internal/api/handler"
	"github.com/bcnelson/styla-directory/internal/api/middleware"
	"github.com/bcnelson/styla-directory/internal/directory"
	"github.com/bcnelson/styla-directory/internal/service"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Store        storage.Storage
	Tags         *tagstore.Store
	Cache        *tagstore.Cache
	Engine       *directory.Engine
	Seeder       *service.Seeder
	Usage        *service.UsageService
	Profiles     *service.ProfileService
	OwnerTags    *service.OwnerTagService
	TagService   *service.TagService
	BootstrapKey string
	Log          logrus.FieldLogger
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(d.Log))

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	tagHandler := handler.NewTagHandler(d.Store, d.Tags, d.Cache, d.Seeder, d.Usage, d.TagService, d.Log)
	ownerHandler := handler.NewOwnerHandler(d.Profiles, d.OwnerTags, d.Engine, d.Log)
	searchHandler := handler.NewSearchHandler(d.Engine, d.Log)
	keyHandler := handler.NewAdminKeyHandler(d.Store, d.Log)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)

		// Tags
		r.Get("/tags", tagHandler.List)
		r.Get("/tags/lookup", tagHandler.Lookup)
		r.Get("/tags/categories", tagHandler.Categories)
		r.Get("/tags/subtags", tagHandler.SubtagsFor)
		r.Get("/tags/{id}", tagHandler.Get)
		r.Get("/tags/{id}/subtags", tagHandler.Subtags)
		r.Get("/tags/{id}/parent", tagHandler.Parent)
		r.Get("/tags/{id}/related", tagHandler.Related)

		// Search
		r.Post("/search", searchHandler.Search)

		// Owners
		r.Get("/owners", ownerHandler.List)
		r.Get("/owners/{id}", ownerHandler.Get)
		r.Get("/owners/{id}/tags", ownerHandler.Tags)
		r.Get("/owners/{id}/favorites", ownerHandler.Favorites)

		// Admin routes (auth required)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(d.Store, d.BootstrapKey, d.Log))

			// Admin keys
			r.Post("/keys", keyHandler.Issue)
			r.Get("/keys", keyHandler.List)
			r.Get("/keys/current", keyHandler.Current)
			r.Delete("/keys/{id}", keyHandler.Revoke)

			// Owners
			r.Get("/owners", ownerHandler.AdminSearch)
			r.Post("/owners", ownerHandler.Create)
			r.Put("/owners/{id}", ownerHandler.Update)
			r.Put("/owners/{id}/favorites", ownerHandler.SetFavorites)
			r.Post("/owners/{id}/tags", ownerHandler.AddTag)
			r.Delete("/owners/{id}/tags/{tag_id}", ownerHandler.RemoveTag)

			// Tag maintenance
			r.Post("/tags", tagHandler.Create)
			r.Post("/tags/seed", tagHandler.Seed)
			r.Post("/tags/cache/clear", tagHandler.ClearCache)
			r.Get("/tags/hierarchy", tagHandler.Hierarchy)
			r.Get("/tags/usage", tagHandler.UsageStatus)
			r.Post("/tags/usage/reconcile", tagHandler.ReconcileUsage)
		})
	})

	return r
}
