package handler

import (
	"net/http"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/service"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/bcnelson/styla-directory/internal/taxonomy"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// TagHandler handles tag catalog endpoints.
type TagHandler struct {
	store  storage.Storage
	tags   *tagstore.Store
	cache  *tagstore.Cache
	seeder *service.Seeder
	usage   *service.UsageService
	catalog *service.TagService
	log     logrus.FieldLogger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(
	store storage.Storage,
	tags *tagstore.Store,
	cache *tagstore.Cache,
	seeder *service.Seeder,
	usage *service.UsageService,
	catalog *service.TagService,
	log logrus.FieldLogger,
) *TagHandler {
	return &TagHandler{store: store, tags: tags, cache: cache, seeder: seeder, usage: usage, catalog: catalog, log: log}
}

// List lists tags, optionally narrowed by ?type= and ?category=.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tagType := domain.TagType(r.URL.Query().Get("type"))
	category := domain.Category(r.URL.Query().Get("category"))

	if tagType != "" && !tagType.Valid() {
		respondStandardError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "unknown tag type", "type", nil)
		return
	}
	if category != "" && !category.Valid() {
		respondStandardError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "unknown category", "category", nil)
		return
	}

	var tags []domain.Tag
	switch {
	case category != "":
		tags = h.tags.GetByCategory(ctx, category)
		if tagType != "" {
			tags = taxonomy.FilterByType(tags, tagType)
		}
	case tagType != "":
		tags = h.cache.Get(ctx, tagType)
	default:
		tags = make([]domain.Tag, 0)
		for _, t := range domain.TagTypes {
			tags = append(tags, h.cache.Get(ctx, t)...)
		}
	}

	respondJSON(w, http.StatusOK, tags)
}

// Get returns a single tag.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !taxonomy.IsValidID(id) {
		handleError(w, h.log, &domain.InvalidTagIDError{ID: id})
		return
	}
	tag := h.tags.GetByID(r.Context(), id)
	if tag == nil {
		respondError(w, http.StatusNotFound, "tag not found")
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// Subtags lists the subtags of a primary tag.
func (h *TagHandler) Subtags(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !taxonomy.IsValidID(id) {
		handleError(w, h.log, &domain.InvalidTagIDError{ID: id})
		return
	}
	respondJSON(w, http.StatusOK, h.tags.GetSubtagsForPrimary(r.Context(), id))
}

// SubtagsFor lists the subtags of every primary in ?primaries=a,b.
func (h *TagHandler) SubtagsFor(w http.ResponseWriter, r *http.Request) {
	ids := splitList(r.URL.Query().Get("primaries"))
	respondJSON(w, http.StatusOK, h.tags.GetSubtagsForPrimaries(r.Context(), ids))
}

// Parent returns the primary tag a subtag belongs to.
func (h *TagHandler) Parent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !taxonomy.IsValidID(id) {
		handleError(w, h.log, &domain.InvalidTagIDError{ID: id})
		return
	}
	parent := h.tags.GetParent(r.Context(), id)
	if parent == nil {
		respondError(w, http.StatusNotFound, "no parent tag")
		return
	}
	respondJSON(w, http.StatusOK, parent)
}

// Related returns a primary tag followed by its subtags.
func (h *TagHandler) Related(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !taxonomy.IsValidID(id) {
		handleError(w, h.log, &domain.InvalidTagIDError{ID: id})
		return
	}
	respondJSON(w, http.StatusOK, h.tags.GetRelated(r.Context(), id))
}

// Lookup resolves ?ids=a,b,c. Malformed and unknown IDs are dropped.
func (h *TagHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	ids := splitList(r.URL.Query().Get("ids"))
	respondJSON(w, http.StatusOK, h.tags.GetByIDs(r.Context(), ids))
}

// Categories lists the service categories.
func (h *TagHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, taxonomy.Categories())
}

// Create adds a custom tag under a generated ID.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tag, err := h.catalog.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

// Seed inserts missing catalog tags.
func (h *TagHandler) Seed(w http.ResponseWriter, r *http.Request) {
	inserted, err := h.seeder.SeedPredefined(r.Context())
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, &domain.SeedResponse{Inserted: inserted})
}

// ClearCache drops the tag cache.
func (h *TagHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Hierarchy validates the stored tags, or the catalog when nothing is stored.
func (h *TagHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	stored, err := h.store.ListTags(r.Context())
	if err != nil {
		handleError(w, h.log, err)
		return
	}

	tags := make([]domain.Tag, 0, len(stored))
	for _, t := range stored {
		tags = append(tags, *t)
	}
	if len(tags) == 0 {
		tags = taxonomy.Predefined()
	}

	errs := taxonomy.ValidateHierarchy(tags)
	counts := make(map[string]int)
	for parent, subs := range taxonomy.GroupSubtagsByParent(tags) {
		counts[parent] = len(subs)
	}
	respondJSON(w, http.StatusOK, &domain.HierarchyReport{Valid: len(errs) == 0, Errors: errs, SubtagCounts: counts})
}

// UsageStatus reports whether a debounced recount is waiting to run.
func (h *TagHandler) UsageStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &domain.UsageStatus{Pending: h.usage.Pending()})
}

// ReconcileUsage recounts tag usage from owner assignments.
func (h *TagHandler) ReconcileUsage(w http.ResponseWriter, r *http.Request) {
	resp, err := h.usage.ForceReconcile(r.Context())
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
