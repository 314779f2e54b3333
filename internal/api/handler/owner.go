package handler

import (
	"net/http"
	"strconv"

	"github.com/bcnelson/styla-directory/internal/directory"
	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/geo"
	"github.com/bcnelson/styla-directory/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// OwnerHandler handles owner profile endpoints.
type OwnerHandler struct {
	profiles  *service.ProfileService
	ownerTags *service.OwnerTagService
	engine    *directory.Engine
	log       logrus.FieldLogger
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(
	profiles *service.ProfileService,
	ownerTags *service.OwnerTagService,
	engine *directory.Engine,
	log logrus.FieldLogger,
) *OwnerHandler {
	return &OwnerHandler{profiles: profiles, ownerTags: ownerTags, engine: engine, log: log}
}

// respondOwner writes an owner enriched with tag names and its ETag.
func (h *OwnerHandler) respondOwner(w http.ResponseWriter, r *http.Request, status int, owner *domain.Owner) {
	enriched, err := h.engine.WithTags(r.Context(), owner)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	SetOwnerETag(w, owner)
	respondJSON(w, status, enriched)
}

// List lists owners with tag names. ?tags=a,b keeps owners holding any of
// the tags; ?lat=&long=&within= keeps owners within that many miles.
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tagIDs := splitList(r.URL.Query().Get("tags"))
	origin, within, near, field := parseNear(r)
	if field != "" {
		respondStandardError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "lat, long and within must be numbers given together", field, nil)
		return
	}

	var owners []*domain.OwnerWithTags
	var err error
	switch {
	case len(tagIDs) > 0:
		owners, err = h.engine.ByTagIDs(ctx, tagIDs)
		if err == nil && near {
			owners = keepWithin(owners, origin, within)
		}
	case near:
		owners, err = h.engine.WithinDistance(ctx, origin, within)
	default:
		owners, err = h.engine.ListWithTags(ctx)
	}
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, owners)
}

// parseNear reads the distance filter. field names the first bad parameter.
func parseNear(r *http.Request) (origin geo.Point, within float64, ok bool, field string) {
	q := r.URL.Query()
	if q.Get("lat") == "" && q.Get("long") == "" && q.Get("within") == "" {
		return geo.Point{}, 0, false, ""
	}
	var vals [3]float64
	for i, name := range []string{"lat", "long", "within"} {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			return geo.Point{}, 0, false, name
		}
		vals[i] = v
	}
	if vals[2] < 0 {
		return geo.Point{}, 0, false, "within"
	}
	return geo.Point{Lat: vals[0], Long: vals[1]}, vals[2], true, ""
}

func keepWithin(owners []*domain.OwnerWithTags, origin geo.Point, miles float64) []*domain.OwnerWithTags {
	out := make([]*domain.OwnerWithTags, 0, len(owners))
	for _, o := range owners {
		if directory.IsWithin(&o.Owner, origin, miles) {
			out = append(out, o)
		}
	}
	return out
}

// AdminSearch matches ?q= against owner IDs, names and addresses.
func (h *OwnerHandler) AdminSearch(w http.ResponseWriter, r *http.Request) {
	owners, err := h.engine.MatchText(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, owners)
}

// Get returns one owner.
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.profiles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	h.respondOwner(w, r, http.StatusOK, owner)
}

// Create creates an owner profile.
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, err := h.profiles.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	h.respondOwner(w, r, http.StatusCreated, owner)
}

// Update replaces an owner profile. An If-Match header must carry the
// current ETag when present.
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	current, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	if !CheckOwnerIfMatch(r, current) {
		RespondPreconditionFailed(w, "owner", current.ID, current.UpdatedAt)
		return
	}

	var req domain.UpdateOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, err := h.profiles.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	h.respondOwner(w, r, http.StatusOK, owner)
}

// Tags lists an owner's resolved tags. ?type=primary narrows the list to
// primary tags.
func (h *OwnerHandler) Tags(w http.ResponseWriter, r *http.Request) {
	list := h.ownerTags.Tags
	if domain.TagType(r.URL.Query().Get("type")) == domain.TagTypePrimary {
		list = h.ownerTags.PrimaryTags
	}
	tags, err := list(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// AddTag assigns a tag to an owner.
func (h *OwnerHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req domain.AddOwnerTagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	owner, err := h.ownerTags.AddTag(r.Context(), chi.URLParam(r, "id"), req.TagID)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	h.respondOwner(w, r, http.StatusOK, owner)
}

// RemoveTag unassigns a tag from an owner.
func (h *OwnerHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerTags.RemoveTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tag_id"))
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	h.respondOwner(w, r, http.StatusOK, owner)
}

// Favorites lists an owner's favorite owners.
func (h *OwnerHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.profiles.Favorites(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, favs)
}

// SetFavorites replaces an owner's favorites.
func (h *OwnerHandler) SetFavorites(w http.ResponseWriter, r *http.Request) {
	var req domain.SetFavoritesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, err := h.profiles.SetFavorites(r.Context(), chi.URLParam(r, "id"), req.Favorites)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	h.respondOwner(w, r, http.StatusOK, owner)
}
