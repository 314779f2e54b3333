package tagstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/taxonomy"
	"github.com/sirupsen/logrus"
)

// Source resolves tags from one backing source. ByID returns
// domain.ErrNotFound when the source does not hold id.
type Source interface {
	ByType(ctx context.Context, t domain.TagType) ([]domain.Tag, error)
	ByCategory(ctx context.Context, c domain.Category) ([]domain.Tag, error)
	ByParent(ctx context.Context, parentID string) ([]domain.Tag, error)
	ByID(ctx context.Context, id string) (*domain.Tag, error)
}

// StorageSource reads tags from the persistence layer, ordered by display name.
type StorageSource struct {
	store storage.Storage
}

// NewStorageSource returns a Source backed by store.
func NewStorageSource(store storage.Storage) *StorageSource {
	return &StorageSource{store: store}
}

func (s *StorageSource) ByType(ctx context.Context, t domain.TagType) ([]domain.Tag, error) {
	return values(s.store.ListTagsByType(ctx, t))
}

func (s *StorageSource) ByCategory(ctx context.Context, c domain.Category) ([]domain.Tag, error) {
	return values(s.store.ListTagsByCategory(ctx, c))
}

func (s *StorageSource) ByParent(ctx context.Context, parentID string) ([]domain.Tag, error) {
	return values(s.store.ListTagsByParent(ctx, parentID))
}

func (s *StorageSource) ByID(ctx context.Context, id string) (*domain.Tag, error) {
	return s.store.GetTag(ctx, id)
}

func values(tags []*domain.Tag, err error) ([]domain.Tag, error) {
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tag, len(tags))
	for i, t := range tags {
		out[i] = *t
	}
	return out, nil
}

// CatalogSource serves the static predefined catalog in catalog order.
// Synthesized rows carry zero usage and are stamped with the current time.
type CatalogSource struct {
	now func() time.Time
}

// NewCatalogSource returns a catalog-backed Source. A nil clock uses time.Now.
func NewCatalogSource(now func() time.Time) *CatalogSource {
	if now == nil {
		now = time.Now
	}
	return &CatalogSource{now: now}
}

func (s *CatalogSource) stamp(tags []domain.Tag) []domain.Tag {
	ts := s.now()
	for i := range tags {
		tags[i].UsageCount = 0
		tags[i].CreatedAt = ts
		tags[i].UpdatedAt = ts
	}
	return tags
}

func (s *CatalogSource) ByType(ctx context.Context, t domain.TagType) ([]domain.Tag, error) {
	return s.stamp(taxonomy.FilterByType(taxonomy.Predefined(), t)), nil
}

func (s *CatalogSource) ByCategory(ctx context.Context, c domain.Category) ([]domain.Tag, error) {
	return s.stamp(taxonomy.FilterByCategory(taxonomy.Predefined(), c)), nil
}

func (s *CatalogSource) ByParent(ctx context.Context, parentID string) ([]domain.Tag, error) {
	return s.stamp(taxonomy.FilterByParent(taxonomy.Predefined(), parentID)), nil
}

func (s *CatalogSource) ByID(ctx context.Context, id string) (*domain.Tag, error) {
	tag, ok := taxonomy.Lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	stamped := s.stamp([]domain.Tag{tag})
	return &stamped[0], nil
}

// Chain tries each source in order. A source that fails or comes back empty
// hands the request to the next one. Failures are logged; an error is
// returned only when the last source fails too.
type Chain struct {
	sources []Source
	log     logrus.FieldLogger
}

// NewChain returns a Chain over sources.
func NewChain(log logrus.FieldLogger, sources ...Source) *Chain {
	return &Chain{sources: sources, log: log}
}

func (c *Chain) list(op string, fetch func(Source) ([]domain.Tag, error)) ([]domain.Tag, error) {
	var lastErr error
	for _, src := range c.sources {
		tags, err := fetch(src)
		if err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"op":     op,
				"source": fmt.Sprintf("%T", src),
			}).Warn("tag source failed, falling back")
			lastErr = err
			continue
		}
		lastErr = nil
		if len(tags) > 0 {
			return tags, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return []domain.Tag{}, nil
}

func (c *Chain) ByType(ctx context.Context, t domain.TagType) ([]domain.Tag, error) {
	return c.list("by_type", func(s Source) ([]domain.Tag, error) { return s.ByType(ctx, t) })
}

func (c *Chain) ByCategory(ctx context.Context, cat domain.Category) ([]domain.Tag, error) {
	return c.list("by_category", func(s Source) ([]domain.Tag, error) { return s.ByCategory(ctx, cat) })
}

func (c *Chain) ByParent(ctx context.Context, parentID string) ([]domain.Tag, error) {
	return c.list("by_parent", func(s Source) ([]domain.Tag, error) { return s.ByParent(ctx, parentID) })
}

func (c *Chain) ByID(ctx context.Context, id string) (*domain.Tag, error) {
	for _, src := range c.sources {
		tag, err := src.ByID(ctx, id)
		if err == nil {
			return tag, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.WithError(err).WithFields(logrus.Fields{
				"tag_id": id,
				"source": fmt.Sprintf("%T", src),
			}).Warn("tag source failed, falling back")
		}
	}
	return nil, domain.ErrNotFound
}
