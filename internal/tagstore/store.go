// Package tagstore resolves service tags from persistent storage with the
// predefined catalog as a fallback.
package tagstore

import (
	"context"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/taxonomy"
	"github.com/sirupsen/logrus"
)

// Store is the tag lookup used by the rest of the application. List reads
// never fail; they come back empty when every source is unavailable.
type Store struct {
	source  Source
	storage storage.Storage
	log     logrus.FieldLogger
}

// New returns a Store that consults storage first and the catalog second.
func New(store storage.Storage, log logrus.FieldLogger) *Store {
	chain := NewChain(log, NewStorageSource(store), NewCatalogSource(nil))
	return NewWithSource(chain, store, log)
}

// NewWithSource returns a Store reading from source and writing usage counts
// to store.
func NewWithSource(source Source, store storage.Storage, log logrus.FieldLogger) *Store {
	return &Store{source: source, storage: store, log: log}
}

func (s *Store) swallow(tags []domain.Tag, err error, fields logrus.Fields) []domain.Tag {
	if err != nil {
		s.log.WithError(err).WithFields(fields).Error("tag lookup failed")
		return []domain.Tag{}
	}
	return tags
}

// GetByType returns the tags of type t.
func (s *Store) GetByType(ctx context.Context, t domain.TagType) []domain.Tag {
	tags, err := s.source.ByType(ctx, t)
	return s.swallow(tags, err, logrus.Fields{"type": t})
}

// GetByCategory returns the tags in category c.
func (s *Store) GetByCategory(ctx context.Context, c domain.Category) []domain.Tag {
	tags, err := s.source.ByCategory(ctx, c)
	return s.swallow(tags, err, logrus.Fields{"category": c})
}

// GetSubtagsForPrimary returns the subtags whose parent is parentID.
// Non-subtag rows that name a parent are skipped.
func (s *Store) GetSubtagsForPrimary(ctx context.Context, parentID string) []domain.Tag {
	tags, err := s.source.ByParent(ctx, parentID)
	tags = s.swallow(tags, err, logrus.Fields{"parent_tag_id": parentID})
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if taxonomy.IsValidSubtagFor(t, parentID) {
			out = append(out, t)
		}
	}
	return out
}

// GetSubtagsForPrimaries returns the subtags of any of primaryIDs, in
// subtag listing order. Malformed IDs are ignored.
func (s *Store) GetSubtagsForPrimaries(ctx context.Context, primaryIDs []string) []domain.Tag {
	valid := taxonomy.ValidIDs(primaryIDs)
	if len(valid) == 0 {
		return []domain.Tag{}
	}
	return taxonomy.SubtagsForPrimaries(s.GetByType(ctx, domain.TagTypeSubtag), valid)
}

// GetParent returns the primary tag a subtag belongs to, resolved within the
// subtag's category. It returns nil for anything else.
func (s *Store) GetParent(ctx context.Context, subtagID string) *domain.Tag {
	tag := s.GetByID(ctx, subtagID)
	if tag == nil || tag.Type != domain.TagTypeSubtag {
		return nil
	}
	parent, ok := taxonomy.ParentTag(s.GetByCategory(ctx, tag.Category), subtagID)
	if !ok || parent.Type != domain.TagTypePrimary {
		return nil
	}
	return &parent
}

// GetRelated returns the primary tag followed by its subtags, or an empty
// slice when primaryID does not resolve to a primary tag.
func (s *Store) GetRelated(ctx context.Context, primaryID string) []domain.Tag {
	primary := s.GetByID(ctx, primaryID)
	if primary == nil || primary.Type != domain.TagTypePrimary {
		return []domain.Tag{}
	}
	return append([]domain.Tag{*primary}, s.GetSubtagsForPrimary(ctx, primaryID)...)
}

// GetByID returns the tag with id, or nil when id is malformed or unknown.
func (s *Store) GetByID(ctx context.Context, id string) *domain.Tag {
	if !taxonomy.IsValidID(id) {
		return nil
	}
	tag, err := s.source.ByID(ctx, id)
	if err != nil {
		return nil
	}
	return tag
}

// GetByIDs resolves each well-formed ID individually. Malformed and
// unresolvable IDs are dropped; order follows ids.
func (s *Store) GetByIDs(ctx context.Context, ids []string) []domain.Tag {
	out := make([]domain.Tag, 0, len(ids))
	for _, id := range taxonomy.ValidIDs(ids) {
		if tag := s.GetByID(ctx, id); tag != nil {
			out = append(out, *tag)
		}
	}
	return out
}

// UpdateUsageCount adds delta to the stored usage count of id.
func (s *Store) UpdateUsageCount(ctx context.Context, id string, delta int) error {
	if !taxonomy.IsValidID(id) {
		return &domain.InvalidTagIDError{ID: id}
	}
	if err := s.storage.AdjustTagUsage(ctx, id, delta); err != nil {
		return &domain.StoreError{Op: "updating usage count for tag", ID: id, Err: err}
	}
	return nil
}
