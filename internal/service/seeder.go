package service

import (
	"context"
	"errors"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/bcnelson/styla-directory/internal/taxonomy"
	"github.com/sirupsen/logrus"
)

// Seeder writes the predefined catalog into storage.
type Seeder struct {
	store storage.Storage
	cache *tagstore.Cache
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewSeeder creates a new Seeder. cache may be nil.
func NewSeeder(store storage.Storage, cache *tagstore.Cache, log logrus.FieldLogger) *Seeder {
	return &Seeder{store: store, cache: cache, log: log, now: time.Now}
}

// SeedPredefined inserts every catalog tag that is not stored yet, with zero
// usage. Existing tags are left untouched. It returns the number inserted.
func (s *Seeder) SeedPredefined(ctx context.Context) (int, error) {
	inserted := 0
	ts := s.now()
	for _, tag := range taxonomy.Predefined() {
		_, err := s.store.GetTag(ctx, tag.ID)
		switch {
		case err == nil:
			continue
		case errors.Is(err, domain.ErrNotFound):
		default:
			return inserted, &domain.StoreError{Op: "reading tag", ID: tag.ID, Err: err}
		}

		tag.UsageCount = 0
		tag.CreatedAt = ts
		tag.UpdatedAt = ts
		if err := s.store.CreateTag(ctx, &tag); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return inserted, &domain.StoreError{Op: "creating tag", ID: tag.ID, Err: err}
		}
		inserted++
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	s.log.WithField("inserted", inserted).Info("predefined tags seeded")
	return inserted, nil
}
