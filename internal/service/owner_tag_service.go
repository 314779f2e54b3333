package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/bcnelson/styla-directory/internal/taxonomy"
	"github.com/sirupsen/logrus"
)

// Reconciler schedules a usage-count reconciliation.
type Reconciler interface {
	TriggerReconcile()
}

// OwnerTagService assigns and removes tags on owner profiles. Mutations of
// one owner are serialized and each runs inside a storage transaction.
type OwnerTagService struct {
	store storage.Storage
	tags  *tagstore.Store
	usage Reconciler
	log   logrus.FieldLogger

	locks sync.Map // owner ID -> *sync.Mutex
}

// NewOwnerTagService creates a new OwnerTagService. usage may be nil.
func NewOwnerTagService(store storage.Storage, tags *tagstore.Store, usage Reconciler, log logrus.FieldLogger) *OwnerTagService {
	return &OwnerTagService{store: store, tags: tags, usage: usage, log: log}
}

func loadOwner(ctx context.Context, store storage.Storage, ownerID string) (*domain.Owner, error) {
	owner, err := store.GetOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("owner %s: %w", ownerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading owner %s: %w", ownerID, err)
	}
	return owner, nil
}

func (s *OwnerTagService) lockOwner(ownerID string) func() {
	v, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// mutate loads the owner inside a transaction, applies change and saves the
// result. Nothing is written when change returns an error.
func (s *OwnerTagService) mutate(ctx context.Context, ownerID string, change func(*domain.Owner) error) (*domain.Owner, error) {
	unlock := s.lockOwner(ownerID)
	defer unlock()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	owner, err := loadOwner(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := change(owner); err != nil {
		return nil, err
	}

	owner.UpdatedAt = time.Now()
	if err := tx.UpdateOwner(ctx, owner); err != nil {
		return nil, &domain.StoreError{Op: "saving owner", ID: ownerID, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &domain.StoreError{Op: "committing owner", ID: ownerID, Err: err}
	}
	return owner, nil
}

// AddTag assigns tagID to the owner. Every check runs before anything is
// written: the ID must be well formed, the owner and tag must exist, the tag
// must not be assigned already and it must be compatible with the owner's
// current tags.
func (s *OwnerTagService) AddTag(ctx context.Context, ownerID, tagID string) (*domain.Owner, error) {
	if !taxonomy.IsValidID(tagID) {
		return nil, &domain.InvalidTagIDError{ID: tagID}
	}
	owner, err := s.mutate(ctx, ownerID, func(owner *domain.Owner) error {
		tag := s.tags.GetByID(ctx, tagID)
		if tag == nil {
			return fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
		}
		if owner.HasTag(tagID) {
			return fmt.Errorf("tag %s on owner %s: %w", tagID, ownerID, domain.ErrAlreadyExists)
		}
		if err := taxonomy.CheckCompatible(s.tags.GetByIDs(ctx, owner.TagIDs), *tag); err != nil {
			return err
		}
		owner.TagIDs = append(owner.TagIDs, tagID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.adjustUsage(ctx, tagID, 1)
	s.log.WithFields(logrus.Fields{"owner_id": ownerID, "tag_id": tagID}).Info("tag added to owner")
	return owner, nil
}

// RemoveTag unassigns tagID from the owner. Subtags that depended on a
// removed primary are kept.
func (s *OwnerTagService) RemoveTag(ctx context.Context, ownerID, tagID string) (*domain.Owner, error) {
	if !taxonomy.IsValidID(tagID) {
		return nil, &domain.InvalidTagIDError{ID: tagID}
	}
	owner, err := s.mutate(ctx, ownerID, func(owner *domain.Owner) error {
		if !owner.HasTag(tagID) {
			return fmt.Errorf("tag %s on owner %s: %w", tagID, ownerID, domain.ErrNotFound)
		}
		kept := make([]string, 0, len(owner.TagIDs)-1)
		for _, id := range owner.TagIDs {
			if id != tagID {
				kept = append(kept, id)
			}
		}
		owner.TagIDs = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.adjustUsage(ctx, tagID, -1)
	s.log.WithFields(logrus.Fields{"owner_id": ownerID, "tag_id": tagID}).Info("tag removed from owner")
	return owner, nil
}

// adjustUsage is best effort; a failed update schedules a full recount.
func (s *OwnerTagService) adjustUsage(ctx context.Context, tagID string, delta int) {
	if err := s.tags.UpdateUsageCount(ctx, tagID, delta); err != nil {
		s.log.WithError(err).WithField("tag_id", tagID).Warn("usage count update failed")
		if s.usage != nil {
			s.usage.TriggerReconcile()
		}
	}
}

// Tags returns the owner's resolved tags in assignment order.
func (s *OwnerTagService) Tags(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	owner, err := loadOwner(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	return s.tags.GetByIDs(ctx, owner.TagIDs), nil
}

// PrimaryTags returns the owner's primary tags.
func (s *OwnerTagService) PrimaryTags(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	tags, err := s.Tags(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return taxonomy.FilterByType(tags, domain.TagTypePrimary), nil
}
