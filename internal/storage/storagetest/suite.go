// Package storagetest runs the same behavioural checks against every
// storage.Storage implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Run("APIKeys", func(t *testing.T) { testAPIKeys(t, newStore(t)) })
	t.Run("Tags", func(t *testing.T) { testTags(t, newStore(t)) })
	t.Run("TagUsage", func(t *testing.T) { testTagUsage(t, newStore(t)) })
	t.Run("Owners", func(t *testing.T) { testOwners(t, newStore(t)) })
	t.Run("OwnersByTag", func(t *testing.T) { testOwnersByTag(t, newStore(t)) })
	t.Run("Transaction", func(t *testing.T) { testTransaction(t, newStore(t)) })
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func testAPIKeys(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	key := &domain.APIKey{ID: "k1", Name: "ci", KeyHash: "hash-1", KeyPrefix: "sty_abcd", CreatedAt: now()}
	require.NoError(t, s.CreateAPIKey(ctx, key))

	got, err := s.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "ci", got.Name)
	assert.Nil(t, got.LastUsedAt)

	_, err = s.GetAPIKeyByHash(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.UpdateAPIKeyLastUsed(ctx, "k1"))
	got, err = s.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsedAt)

	count, err := s.CountAPIKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	keys, err := s.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	require.NoError(t, s.DeleteAPIKey(ctx, "k1"))
	assert.ErrorIs(t, s.DeleteAPIKey(ctx, "k1"), domain.ErrNotFound)
}

func seedTags(t *testing.T, s storage.Storage) {
	t.Helper()
	ts := now()
	tags := []*domain.Tag{
		{ID: "001001", Name: "hair_stylist", DisplayName: "Hair Stylist", Category: domain.CategoryHairStylist, Type: domain.TagTypePrimary},
		{ID: "001003", Name: "color", DisplayName: "Color", Category: domain.CategoryHairStylist, Type: domain.TagTypeSubtag, ParentTagID: "001001"},
		{ID: "001002", Name: "haircut", DisplayName: "Haircut", Category: domain.CategoryHairStylist, Type: domain.TagTypeSubtag, ParentTagID: "001001"},
		{ID: "008004", Name: "kid_friendly", DisplayName: "Kid Friendly", Category: domain.CategoryOptional, Type: domain.TagTypeOptional},
	}
	for _, tag := range tags {
		tag.CreatedAt, tag.UpdatedAt = ts, ts
		require.NoError(t, s.CreateTag(context.Background(), tag))
	}
}

func testTags(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	seedTags(t, s)

	err := s.CreateTag(ctx, &domain.Tag{ID: "001001", Name: "dup", DisplayName: "Dup", CreatedAt: now(), UpdatedAt: now()})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	tag, err := s.GetTag(ctx, "001002")
	require.NoError(t, err)
	assert.Equal(t, "Haircut", tag.DisplayName)
	assert.Equal(t, "001001", tag.ParentTagID)

	_, err = s.GetTag(ctx, "999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	subs, err := s.ListTagsByType(ctx, domain.TagTypeSubtag)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Color", subs[0].DisplayName, "listed by display name")
	assert.Equal(t, "Haircut", subs[1].DisplayName)

	hair, err := s.ListTagsByCategory(ctx, domain.CategoryHairStylist)
	require.NoError(t, err)
	assert.Len(t, hair, 3)

	children, err := s.ListTagsByParent(ctx, "001001")
	require.NoError(t, err)
	assert.Len(t, children, 2)

	none, err := s.ListTagsByType(ctx, domain.TagTypeOptional)
	require.NoError(t, err)
	assert.Len(t, none, 1)
}

func testTagUsage(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	seedTags(t, s)

	require.NoError(t, s.AdjustTagUsage(ctx, "001001", 1))
	require.NoError(t, s.AdjustTagUsage(ctx, "001001", 1))
	tag, err := s.GetTag(ctx, "001001")
	require.NoError(t, err)
	assert.Equal(t, 2, tag.UsageCount)

	require.NoError(t, s.AdjustTagUsage(ctx, "001001", -5))
	tag, err = s.GetTag(ctx, "001001")
	require.NoError(t, err)
	assert.Equal(t, 0, tag.UsageCount, "usage never goes negative")

	require.NoError(t, s.SetTagUsage(ctx, "001001", 7))
	tag, err = s.GetTag(ctx, "001001")
	require.NoError(t, err)
	assert.Equal(t, 7, tag.UsageCount)

	assert.ErrorIs(t, s.AdjustTagUsage(ctx, "999999", 1), domain.ErrNotFound)
	assert.ErrorIs(t, s.SetTagUsage(ctx, "999999", 1), domain.ErrNotFound)
}

func newOwner(id, name string, created time.Time, tagIDs ...string) *domain.Owner {
	return &domain.Owner{
		ID: id,
		BusinessProfile: domain.BusinessProfile{
			BusinessName: name,
			BusinessLat:  37.7749,
			BusinessLong: -122.4194,
		},
		ProfileCustomization: domain.ProfileCustomization{
			ProfilePic:    domain.DefaultProfilePic,
			Background:    domain.Background{Gradient: []string{"#ffffff", "#000000"}},
			GalleryImages: []string{"a.png"},
			SocialLinks: domain.SocialLinks{
				Instagram: &domain.StreamLink{Enabled: true, URL: "https://instagram.com/x", Stream: true},
			},
		},
		Settings:  domain.DefaultSettings(),
		TagIDs:    tagIDs,
		Favorites: []string{"o9"},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func testOwners(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	base := now()

	require.NoError(t, s.CreateOwner(ctx, newOwner("o2", "Second", base.Add(time.Second), "001001")))
	require.NoError(t, s.CreateOwner(ctx, newOwner("o1", "First", base, "001001", "001002")))
	assert.ErrorIs(t, s.CreateOwner(ctx, newOwner("o1", "Again", base)), domain.ErrAlreadyExists)

	got, err := s.GetOwner(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.BusinessProfile.BusinessName)
	assert.Equal(t, []string{"001001", "001002"}, got.TagIDs)
	assert.Equal(t, []string{"o9"}, got.Favorites)
	assert.True(t, got.ProfileCustomization.Background.IsGradient())
	require.NotNil(t, got.ProfileCustomization.SocialLinks.Instagram)
	assert.True(t, got.ProfileCustomization.SocialLinks.Instagram.Stream)
	assert.Equal(t, "USD", got.Settings.Payment.Currency)
	assert.Equal(t, []int{24, 2}, got.Settings.Notifications.ReminderHours)

	_, err = s.GetOwner(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	owners, err := s.ListOwners(ctx)
	require.NoError(t, err)
	require.Len(t, owners, 2)

	got.TagIDs = []string{"008004"}
	got.BusinessProfile.Bio = "updated"
	require.NoError(t, s.UpdateOwner(ctx, got))

	again, err := s.GetOwner(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"008004"}, again.TagIDs)
	assert.Equal(t, "updated", again.BusinessProfile.Bio)

	assert.ErrorIs(t, s.UpdateOwner(ctx, newOwner("nope", "x", base)), domain.ErrNotFound)
}

func testOwnersByTag(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	base := now()

	require.NoError(t, s.CreateOwner(ctx, newOwner("a", "A", base, "001001")))
	require.NoError(t, s.CreateOwner(ctx, newOwner("b", "B", base.Add(time.Second), "002001")))
	require.NoError(t, s.CreateOwner(ctx, newOwner("c", "C", base.Add(2*time.Second), "001001", "002001")))

	owners, err := s.ListOwnersByTag(ctx, "001001")
	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, "a", owners[0].ID)
	assert.Equal(t, "c", owners[1].ID)

	owners, err = s.ListOwnersByTag(ctx, "123456")
	require.NoError(t, err)
	assert.Empty(t, owners)

	all, err := s.ListOwners(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func testTransaction(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	seedTags(t, s)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateOwner(ctx, newOwner("tx", "Tx", now(), "001001")))
	require.NoError(t, tx.AdjustTagUsage(ctx, "001001", 1))
	require.NoError(t, tx.Commit())

	owner, err := s.GetOwner(ctx, "tx")
	require.NoError(t, err)
	assert.Equal(t, []string{"001001"}, owner.TagIDs)

	tag, err := s.GetTag(ctx, "001001")
	require.NoError(t, err)
	assert.Equal(t, 1, tag.UsageCount)
}
