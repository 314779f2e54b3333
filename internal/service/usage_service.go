package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/sirupsen/logrus"
)

// UsageService keeps stored tag usage counts in line with owner assignments.
type UsageService struct {
	store    storage.Storage
	cache    *tagstore.Cache
	log      logrus.FieldLogger
	debounce time.Duration
	auto     bool

	mu               sync.Mutex
	reconcileTimer   *time.Timer
	reconcilePending bool
	generation       uint64
}

// NewUsageService creates a new UsageService. cache may be nil.
func NewUsageService(store storage.Storage, cache *tagstore.Cache, log logrus.FieldLogger, debounce time.Duration, auto bool) *UsageService {
	return &UsageService{
		store:    store,
		cache:    cache,
		log:      log,
		debounce: debounce,
		auto:     auto,
	}
}

// TriggerReconcile schedules a debounced reconciliation.
// Multiple triggers within the debounce period result in a single run.
func (s *UsageService) TriggerReconcile() {
	if !s.auto {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reconcileTimer != nil {
		s.reconcileTimer.Stop()
	}

	s.generation++
	gen := s.generation
	s.reconcilePending = true
	s.reconcileTimer = time.AfterFunc(s.debounce, func() { s.runScheduled(gen) })
}

// runScheduled runs the reconciliation scheduled as generation gen. A timer
// that fires after a later trigger or Stop does nothing.
func (s *UsageService) runScheduled(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.reconcilePending = false
	s.mu.Unlock()

	if _, err := s.reconcile(context.Background()); err != nil {
		s.log.WithError(err).Error("scheduled usage reconciliation failed")
	}
}

// Pending reports whether a debounced reconciliation is waiting to run.
func (s *UsageService) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcilePending
}

// Stop cancels any pending reconciliation.
func (s *UsageService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconcileTimer != nil {
		s.reconcileTimer.Stop()
	}
	s.generation++
	s.reconcilePending = false
}

// ForceReconcile recounts tag usage immediately, cancelling any pending run.
func (s *UsageService) ForceReconcile(ctx context.Context) (*domain.ReconcileResponse, error) {
	s.Stop()
	return s.reconcile(ctx)
}

func (s *UsageService) reconcile(ctx context.Context) (*domain.ReconcileResponse, error) {
	owners, err := s.store.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	counts := make(map[string]int)
	for _, owner := range owners {
		seen := make(map[string]bool, len(owner.TagIDs))
		for _, id := range owner.TagIDs {
			if !seen[id] {
				seen[id] = true
				counts[id]++
			}
		}
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updated := 0
	for _, tag := range tags {
		if tag.UsageCount == counts[tag.ID] {
			continue
		}
		if err := tx.SetTagUsage(ctx, tag.ID, counts[tag.ID]); err != nil {
			return nil, &domain.StoreError{Op: "setting usage count for tag", ID: tag.ID, Err: err}
		}
		updated++
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing usage counts: %w", err)
	}

	if updated > 0 && s.cache != nil {
		s.cache.Clear()
	}
	s.log.WithFields(logrus.Fields{
		"tags":    len(tags),
		"updated": updated,
	}).Info("tag usage reconciled")

	return &domain.ReconcileResponse{Updated: updated, RanAt: time.Now()}, nil
}
