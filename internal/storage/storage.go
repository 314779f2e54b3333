package storage

import (
	"context"

	"github.com/bcnelson/styla-directory/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// API Keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
	CountAPIKeys(ctx context.Context) (int, error)

	// Tags. List queries are ordered by display name.
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	ListTagsByType(ctx context.Context, t domain.TagType) ([]*domain.Tag, error)
	ListTagsByCategory(ctx context.Context, c domain.Category) ([]*domain.Tag, error)
	ListTagsByParent(ctx context.Context, parentID string) ([]*domain.Tag, error)
	AdjustTagUsage(ctx context.Context, id string, delta int) error
	SetTagUsage(ctx context.Context, id string, count int) error

	// Owners. ListOwners returns owners in creation order.
	CreateOwner(ctx context.Context, owner *domain.Owner) error
	GetOwner(ctx context.Context, id string) (*domain.Owner, error)
	ListOwners(ctx context.Context) ([]*domain.Owner, error)
	ListOwnersByTag(ctx context.Context, tagID string) ([]*domain.Owner, error)
	UpdateOwner(ctx context.Context, owner *domain.Owner) error

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Storage
	Commit() error
	Rollback() error
}
