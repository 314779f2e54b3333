package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
)

// Store is an in-memory implementation of the storage interface for testing.
// Records are copied on the way in and out so callers never share state
// with the store.
type Store struct {
	mu sync.RWMutex

	apiKeys    map[string]*domain.APIKey
	tags       map[string]*domain.Tag
	owners     map[string]*domain.Owner
	ownerOrder []string // creation order
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		apiKeys: make(map[string]*domain.APIKey),
		tags:    make(map[string]*domain.Tag),
		owners:  make(map[string]*domain.Owner),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return &Tx{store: s}, nil
}

// Tx is a no-op transaction for in-memory store.
type Tx struct {
	store *Store
}

func (t *Tx) Commit() error   { return nil }
func (t *Tx) Rollback() error { return nil }
func (t *Tx) Close() error    { return nil }
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, domain.ErrInvalidInput
}

// Forward all Tx methods to the underlying store
func (t *Tx) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return t.store.CreateAPIKey(ctx, key)
}
func (t *Tx) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return t.store.GetAPIKeyByHash(ctx, keyHash)
}
func (t *Tx) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return t.store.ListAPIKeys(ctx)
}
func (t *Tx) DeleteAPIKey(ctx context.Context, id string) error {
	return t.store.DeleteAPIKey(ctx, id)
}
func (t *Tx) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	return t.store.UpdateAPIKeyLastUsed(ctx, id)
}
func (t *Tx) CountAPIKeys(ctx context.Context) (int, error) {
	return t.store.CountAPIKeys(ctx)
}
func (t *Tx) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return t.store.CreateTag(ctx, tag)
}
func (t *Tx) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return t.store.GetTag(ctx, id)
}
func (t *Tx) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return t.store.ListTags(ctx)
}
func (t *Tx) ListTagsByType(ctx context.Context, tagType domain.TagType) ([]*domain.Tag, error) {
	return t.store.ListTagsByType(ctx, tagType)
}
func (t *Tx) ListTagsByCategory(ctx context.Context, c domain.Category) ([]*domain.Tag, error) {
	return t.store.ListTagsByCategory(ctx, c)
}
func (t *Tx) ListTagsByParent(ctx context.Context, parentID string) ([]*domain.Tag, error) {
	return t.store.ListTagsByParent(ctx, parentID)
}
func (t *Tx) AdjustTagUsage(ctx context.Context, id string, delta int) error {
	return t.store.AdjustTagUsage(ctx, id, delta)
}
func (t *Tx) SetTagUsage(ctx context.Context, id string, count int) error {
	return t.store.SetTagUsage(ctx, id, count)
}
func (t *Tx) CreateOwner(ctx context.Context, owner *domain.Owner) error {
	return t.store.CreateOwner(ctx, owner)
}
func (t *Tx) GetOwner(ctx context.Context, id string) (*domain.Owner, error) {
	return t.store.GetOwner(ctx, id)
}
func (t *Tx) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	return t.store.ListOwners(ctx)
}
func (t *Tx) ListOwnersByTag(ctx context.Context, tagID string) ([]*domain.Owner, error) {
	return t.store.ListOwnersByTag(ctx, tagID)
}
func (t *Tx) UpdateOwner(ctx context.Context, owner *domain.Owner) error {
	return t.store.UpdateOwner(ctx, owner)
}

// ============================================
// API Keys
// ============================================

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apiKeys[key.ID]; exists {
		return domain.ErrAlreadyExists
	}
	k := *key
	s.apiKeys[key.ID] = &k
	return nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.apiKeys {
		if key.KeyHash == keyHash {
			k := *key
			return &k, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]*domain.APIKey, 0, len(s.apiKeys))
	for _, key := range s.apiKeys {
		k := *key
		keys = append(keys, &k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.After(keys[j].CreatedAt) })
	return keys, nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apiKeys[id]; !exists {
		return domain.ErrNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, exists := s.apiKeys[id]
	if !exists {
		return domain.ErrNotFound
	}
	now := time.Now()
	key.LastUsedAt = &now
	return nil
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apiKeys), nil
}

// ============================================
// Tags
// ============================================

func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tags[tag.ID]; exists {
		return domain.ErrAlreadyExists
	}
	t := *tag
	s.tags[tag.ID] = &t
	return nil
}

func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tag, exists := s.tags[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	t := *tag
	return &t, nil
}

func (s *Store) listTagsWhere(keep func(*domain.Tag) bool) []*domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags := make([]*domain.Tag, 0)
	for _, tag := range s.tags {
		if keep(tag) {
			t := *tag
			tags = append(tags, &t)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].DisplayName != tags[j].DisplayName {
			return tags[i].DisplayName < tags[j].DisplayName
		}
		return tags[i].ID < tags[j].ID
	})
	return tags
}

func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.listTagsWhere(func(*domain.Tag) bool { return true }), nil
}

func (s *Store) ListTagsByType(ctx context.Context, tagType domain.TagType) ([]*domain.Tag, error) {
	return s.listTagsWhere(func(t *domain.Tag) bool { return t.Type == tagType }), nil
}

func (s *Store) ListTagsByCategory(ctx context.Context, c domain.Category) ([]*domain.Tag, error) {
	return s.listTagsWhere(func(t *domain.Tag) bool { return t.Category == c }), nil
}

func (s *Store) ListTagsByParent(ctx context.Context, parentID string) ([]*domain.Tag, error) {
	return s.listTagsWhere(func(t *domain.Tag) bool { return t.ParentTagID == parentID }), nil
}

func (s *Store) AdjustTagUsage(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, exists := s.tags[id]
	if !exists {
		return domain.ErrNotFound
	}
	tag.UsageCount += delta
	if tag.UsageCount < 0 {
		tag.UsageCount = 0
	}
	tag.UpdatedAt = time.Now()
	return nil
}

func (s *Store) SetTagUsage(ctx context.Context, id string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, exists := s.tags[id]
	if !exists {
		return domain.ErrNotFound
	}
	tag.UsageCount = count
	tag.UpdatedAt = time.Now()
	return nil
}

// ============================================
// Owners
// ============================================

func (s *Store) CreateOwner(ctx context.Context, owner *domain.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.owners[owner.ID]; exists {
		return domain.ErrAlreadyExists
	}
	s.owners[owner.ID] = owner.Clone()
	s.ownerOrder = append(s.ownerOrder, owner.ID)
	return nil
}

func (s *Store) GetOwner(ctx context.Context, id string) (*domain.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, exists := s.owners[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return owner.Clone(), nil
}

func (s *Store) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make([]*domain.Owner, 0, len(s.ownerOrder))
	for _, id := range s.ownerOrder {
		owners = append(owners, s.owners[id].Clone())
	}
	return owners, nil
}

func (s *Store) ListOwnersByTag(ctx context.Context, tagID string) ([]*domain.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make([]*domain.Owner, 0)
	for _, id := range s.ownerOrder {
		if owner := s.owners[id]; owner.HasTag(tagID) {
			owners = append(owners, owner.Clone())
		}
	}
	return owners, nil
}

func (s *Store) UpdateOwner(ctx context.Context, owner *domain.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.owners[owner.ID]; !exists {
		return domain.ErrNotFound
	}
	s.owners[owner.ID] = owner.Clone()
	return nil
}
