package memory

import (
	"context"
	"testing"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestOwnerIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	owner := &domain.Owner{ID: "o1", TagIDs: []string{"001001"}}
	require.NoError(t, s.CreateOwner(ctx, owner))
	owner.TagIDs[0] = "changed"

	got, err := s.GetOwner(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"001001"}, got.TagIDs)

	got.TagIDs = append(got.TagIDs, "001002")
	again, err := s.GetOwner(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, again.TagIDs, 1)
}

func TestNestedTransaction(t *testing.T) {
	tx, err := New().BeginTx(context.Background())
	require.NoError(t, err)
	_, err = tx.BeginTx(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
