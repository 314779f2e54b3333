package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/bcnelson/styla-directory/internal/taxonomy"
	"github.com/bcnelson/styla-directory/internal/validation"
	"github.com/sirupsen/logrus"
)

// maxIDAttempts bounds retries when a generated ID is already stored.
const maxIDAttempts = 10

// TagService manages custom tags added next to the predefined catalog.
type TagService struct {
	store storage.Storage
	tags  *tagstore.Store
	cache *tagstore.Cache
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewTagService creates a new TagService. cache may be nil.
func NewTagService(store storage.Storage, tags *tagstore.Store, cache *tagstore.Cache, log logrus.FieldLogger) *TagService {
	return &TagService{store: store, tags: tags, cache: cache, log: log, now: time.Now}
}

// Create stores a custom tag under a freshly generated ID. Names used by the
// catalog are rejected. A subtag must name an existing primary in its own
// category; other types must not name a parent.
func (s *TagService) Create(ctx context.Context, req *domain.CreateTagRequest) (*domain.Tag, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var errs validation.ValidationErrors
	if !req.Type.Valid() {
		errs.Add("type", string(req.Type), "must be primary, subtag or optional")
	}
	if !req.Category.Valid() {
		errs.Add("category", string(req.Category), "is not a known category")
	}
	if req.Type != domain.TagTypeSubtag && req.ParentTagID != "" {
		errs.Add("parentTagId", req.ParentTagID, "is only allowed on subtags")
	}
	if req.Type == domain.TagTypeSubtag && req.ParentTagID == "" {
		errs.Add("parentTagId", "", "is required for subtags")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if id, taken := taxonomy.IDByName(req.Name); taken {
		return nil, fmt.Errorf("tag name %q is used by catalog tag %s: %w", req.Name, id, domain.ErrAlreadyExists)
	}

	if req.Type == domain.TagTypeSubtag {
		if !taxonomy.IsValidID(req.ParentTagID) {
			return nil, &domain.InvalidTagIDError{ID: req.ParentTagID}
		}
		parent := s.tags.GetByID(ctx, req.ParentTagID)
		if parent == nil {
			return nil, fmt.Errorf("parent tag %s: %w", req.ParentTagID, domain.ErrNotFound)
		}
		if parent.Type != domain.TagTypePrimary || parent.Category != req.Category {
			return nil, fmt.Errorf("%w: parent %s must be a primary tag in category %s",
				domain.ErrIncompatibleTag, parent.ID, req.Category)
		}
	}

	ts := s.now()
	tag := &domain.Tag{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Category:    req.Category,
		Type:        req.Type,
		ParentTagID: req.ParentTagID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	for attempt := 0; ; attempt++ {
		id, err := taxonomy.GenerateID()
		if err != nil {
			return nil, err
		}
		tag.ID = id
		err = s.store.CreateTag(ctx, tag)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) || attempt+1 >= maxIDAttempts {
			return nil, &domain.StoreError{Op: "creating tag", ID: id, Err: err}
		}
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	s.log.WithFields(logrus.Fields{"tag_id": tag.ID, "type": tag.Type}).Info("custom tag created")
	return tag, nil
}
