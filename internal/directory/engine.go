// Package directory filters the owner directory by name, tags and distance.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/geo"
	"github.com/sirupsen/logrus"
)

// OwnerLister fetches owners.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]*domain.Owner, error)
	ListOwnersByTag(ctx context.Context, tagID string) ([]*domain.Owner, error)
}

// TagResolver resolves tag IDs, dropping the ones it cannot resolve.
type TagResolver interface {
	GetByIDs(ctx context.Context, ids []string) []domain.Tag
}

// Engine runs directory queries over a fresh owner snapshot per call.
type Engine struct {
	owners             OwnerLister
	tags               TagResolver
	defaultMaxDistance float64
	log                logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultMaxDistance sets the radius used when a query leaves
// MaxDistance unset.
func WithDefaultMaxDistance(miles float64) Option {
	return func(e *Engine) {
		if miles > 0 {
			e.defaultMaxDistance = miles
		}
	}
}

// New returns an Engine.
func New(owners OwnerLister, tags TagResolver, log logrus.FieldLogger, opts ...Option) *Engine {
	e := &Engine{
		owners:             owners,
		tags:               tags,
		defaultMaxDistance: domain.DefaultMaxDistance,
		log:                log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search is Find with failures logged and reported as no results.
func (e *Engine) Search(ctx context.Context, q domain.SearchQuery) []*domain.OwnerWithTags {
	results, err := e.Find(ctx, q)
	if err != nil {
		e.log.WithError(err).WithField("name_query", q.NameQuery).Error("directory search failed")
		return []*domain.OwnerWithTags{}
	}
	return results
}

// Find returns the owners matching q in fetch order. The name and tag
// filters apply only when set; the distance filter always applies.
func (e *Engine) Find(ctx context.Context, q domain.SearchQuery) ([]*domain.OwnerWithTags, error) {
	owners, err := e.ListWithTags(ctx)
	if err != nil {
		return nil, err
	}

	filterByName := strings.TrimSpace(q.NameQuery) != ""
	selected := q.SelectedTagIDs()
	origin := geo.Point{Lat: q.OriginLat, Long: q.OriginLong}
	maxDistance := q.MaxDistance
	if maxDistance <= 0 {
		maxDistance = e.defaultMaxDistance
	}

	results := make([]*domain.OwnerWithTags, 0, len(owners))
	for _, o := range owners {
		if filterByName && !MatchesName(&o.Owner, q.NameQuery) {
			continue
		}
		if len(selected) > 0 && !MatchesAnyTag(&o.Owner, selected) {
			continue
		}
		if !IsWithin(&o.Owner, origin, maxDistance) {
			continue
		}
		results = append(results, o)
	}

	e.log.WithFields(logrus.Fields{
		"owners":  len(owners),
		"results": len(results),
	}).Debug("directory search")
	return results, nil
}

// ListWithTags returns every owner enriched with tag display names.
func (e *Engine) ListWithTags(ctx context.Context) ([]*domain.OwnerWithTags, error) {
	owners, err := e.owners.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching owners: %w", err)
	}
	return e.enrich(ctx, owners)
}

// WithTags enriches a single owner.
func (e *Engine) WithTags(ctx context.Context, owner *domain.Owner) (*domain.OwnerWithTags, error) {
	out, err := e.enrich(ctx, []*domain.Owner{owner})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// MatchText returns owners whose ID, business name, first name, last name or
// address contains text. An empty text matches everyone.
func (e *Engine) MatchText(ctx context.Context, text string) ([]*domain.OwnerWithTags, error) {
	owners, err := e.ListWithTags(ctx)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return owners, nil
	}
	needle := strings.ToLower(text)
	out := make([]*domain.OwnerWithTags, 0)
	for _, o := range owners {
		if strings.Contains(strings.ToLower(o.ID), needle) || MatchesName(&o.Owner, text) {
			out = append(out, o)
		}
	}
	return out, nil
}

// ByTagIDs returns owners holding at least one of tagIDs. An empty selection
// returns every owner. A single tag is looked up directly.
func (e *Engine) ByTagIDs(ctx context.Context, tagIDs []string) ([]*domain.OwnerWithTags, error) {
	if len(tagIDs) == 1 {
		owners, err := e.owners.ListOwnersByTag(ctx, tagIDs[0])
		if err != nil {
			return nil, fmt.Errorf("fetching owners with tag %s: %w", tagIDs[0], err)
		}
		return e.enrich(ctx, owners)
	}

	owners, err := e.ListWithTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return owners, nil
	}
	out := make([]*domain.OwnerWithTags, 0)
	for _, o := range owners {
		if MatchesAnyTag(&o.Owner, tagIDs) {
			out = append(out, o)
		}
	}
	return out, nil
}

// WithinDistance returns owners within maxMiles of origin.
func (e *Engine) WithinDistance(ctx context.Context, origin geo.Point, maxMiles float64) ([]*domain.OwnerWithTags, error) {
	owners, err := e.ListWithTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.OwnerWithTags, 0)
	for _, o := range owners {
		if IsWithin(&o.Owner, origin, maxMiles) {
			out = append(out, o)
		}
	}
	return out, nil
}

// enrich resolves tag names, asking the resolver about each ID at most once.
func (e *Engine) enrich(ctx context.Context, owners []*domain.Owner) ([]*domain.OwnerWithTags, error) {
	names := make(map[string]string) // "" marks an unresolvable ID
	out := make([]*domain.OwnerWithTags, 0, len(owners))

	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enriching owners: %w", err)
		}

		missing := make([]string, 0)
		for _, id := range owner.TagIDs {
			if _, seen := names[id]; !seen {
				missing = append(missing, id)
				names[id] = ""
			}
		}
		if len(missing) > 0 {
			for _, tag := range e.tags.GetByIDs(ctx, missing) {
				names[tag.ID] = tag.DisplayName
			}
		}

		tagNames := make([]string, 0, len(owner.TagIDs))
		for _, id := range owner.TagIDs {
			if name := names[id]; name != "" {
				tagNames = append(tagNames, name)
			}
		}
		out = append(out, &domain.OwnerWithTags{Owner: *owner, TagNames: tagNames})
	}
	return out, nil
}

// MatchesName reports whether query appears, ignoring case, in the owner's
// business name, first name, last name or address.
func MatchesName(o *domain.Owner, query string) bool {
	needle := strings.ToLower(query)
	bp := o.BusinessProfile
	for _, field := range []string{bp.BusinessName, bp.FirstName, bp.LastName, bp.BusinessAddress} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesAnyTag reports whether the owner holds at least one of ids.
func MatchesAnyTag(o *domain.Owner, ids []string) bool {
	for _, id := range ids {
		if o.HasTag(id) {
			return true
		}
	}
	return false
}

// IsWithin reports whether the owner has coordinates within maxMiles of
// origin. Owners without coordinates never match.
func IsWithin(o *domain.Owner, origin geo.Point, maxMiles float64) bool {
	if !o.BusinessProfile.HasCoordinates() {
		return false
	}
	at := geo.Point{Lat: o.BusinessProfile.BusinessLat, Long: o.BusinessProfile.BusinessLong}
	return geo.Within(origin, at, maxMiles)
}
