package tagstore

import (
	"context"
	"sync"

	"github.com/bcnelson/styla-directory/internal/domain"
)

// Cache memoizes GetByType results. One backing query is issued per type
// until Clear is called. Safe for concurrent use.
type Cache struct {
	store *Store

	mu     sync.Mutex
	byType map[domain.TagType][]domain.Tag
}

// NewCache returns an empty cache in front of store.
func NewCache(store *Store) *Cache {
	return &Cache{store: store, byType: make(map[domain.TagType][]domain.Tag)}
}

// Get returns the tags of type t, loading them on first use. Empty results
// are not cached.
func (c *Cache) Get(ctx context.Context, t domain.TagType) []domain.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tags, ok := c.byType[t]; ok {
		return copyTags(tags)
	}
	tags := c.store.GetByType(ctx, t)
	if len(tags) > 0 {
		c.byType[t] = tags
	}
	return copyTags(tags)
}

// Preload warms the cache with the primary tags.
func (c *Cache) Preload(ctx context.Context) int {
	return len(c.Get(ctx, domain.TagTypePrimary))
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byType = make(map[domain.TagType][]domain.Tag)
}

func copyTags(tags []domain.Tag) []domain.Tag {
	out := make([]domain.Tag, len(tags))
	copy(out, tags)
	return out
}
