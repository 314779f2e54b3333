package taxonomy

import (
	"errors"
	"strings"
	"testing"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"six digits", "001001", true},
		{"all nines", "999999", true},
		{"five digits", "00100", false},
		{"seven digits", "0010011", false},
		{"letter", "00100a", false},
		{"empty", "", false},
		{"spaces", " 01001", false},
		{"unicode digit", "00100٣", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidID(tt.id))
		})
	}
}

func TestPredefinedCatalog(t *testing.T) {
	tags := Predefined()
	require.Len(t, tags, 130)

	seen := make(map[string]bool)
	for _, tag := range tags {
		assert.True(t, IsValidID(tag.ID), "catalog ID %q is malformed", tag.ID)
		assert.False(t, seen[tag.ID], "duplicate catalog ID %s", tag.ID)
		seen[tag.ID] = true
		assert.True(t, tag.Category.Valid(), "tag %s has unknown category", tag.ID)
		assert.True(t, tag.Type.Valid(), "tag %s has unknown type", tag.ID)
		if tag.Type != domain.TagTypeSubtag {
			assert.Empty(t, tag.ParentTagID, "non-subtag %s has a parent", tag.ID)
		}
	}

	assert.Empty(t, ValidateHierarchy(tags))
	assert.Len(t, FilterByType(tags, domain.TagTypePrimary), 7)
	assert.Len(t, FilterByType(tags, domain.TagTypeOptional), 14)
}

func TestPredefinedReturnsCopy(t *testing.T) {
	tags := Predefined()
	tags[0].DisplayName = "changed"

	tag, ok := Lookup(tags[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Hair Stylist", tag.DisplayName)
}

func TestValidateHierarchy(t *testing.T) {
	t.Run("orphaned subtag", func(t *testing.T) {
		tags := []domain.Tag{
			{ID: "001001", DisplayName: "Hair Stylist", Type: domain.TagTypePrimary},
			{ID: "009002", DisplayName: "Lost Service", Type: domain.TagTypeSubtag, ParentTagID: "009001"},
		}

		errs := ValidateHierarchy(tags)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "009002")
		assert.Contains(t, errs[0], "Lost Service")
	})

	t.Run("parent is not primary", func(t *testing.T) {
		tags := []domain.Tag{
			{ID: "008001", DisplayName: "On-Location", Type: domain.TagTypeOptional},
			{ID: "008100", DisplayName: "Child", Type: domain.TagTypeSubtag, ParentTagID: "008001"},
		}
		assert.Len(t, ValidateHierarchy(tags), 1)
	})

	t.Run("reports every problem", func(t *testing.T) {
		tags := []domain.Tag{
			{ID: "100001", DisplayName: "No Parent", Type: domain.TagTypeSubtag},
			{ID: "100002", DisplayName: "Bad Parent", Type: domain.TagTypeSubtag, ParentTagID: "999999"},
		}
		errs := ValidateHierarchy(tags)
		require.Len(t, errs, 2)
		assert.True(t, strings.Contains(errs[0], "no parent"))
		assert.True(t, strings.Contains(errs[1], "999999"))
	})
}

func TestChildSubtagsAndRelated(t *testing.T) {
	tags := Predefined()

	children := ChildSubtags(tags, "006001")
	require.Len(t, children, 15)
	assert.Equal(t, "006002", children[0].ID)
	assert.Equal(t, "006016", children[len(children)-1].ID)

	related := RelatedTags(tags, "006001")
	require.Len(t, related, 16)
	assert.Equal(t, "006001", related[0].ID)

	assert.Empty(t, RelatedTags(tags, "123456"))
	assert.Empty(t, ChildSubtags(tags, "008001"))
}

func TestParentAndGrouping(t *testing.T) {
	tags := Predefined()

	parent, ok := ParentTag(tags, "004004")
	require.True(t, ok)
	assert.Equal(t, "004001", parent.ID)

	_, ok = ParentTag(tags, "004001")
	assert.False(t, ok)

	groups := GroupSubtagsByParent(tags)
	assert.Len(t, groups, 7)
	assert.Len(t, groups["003001"], 13)

	subs := SubtagsForPrimaries(tags, []string{"003001", "004001"})
	assert.Len(t, subs, 27)

	assert.True(t, IsValidSubtagFor(groups["005001"][0], "005001"))
	assert.False(t, IsValidSubtagFor(groups["005001"][0], "001001"))
}

func TestIDHelpers(t *testing.T) {
	assert.Equal(t, []string{"001001", "004001"}, ValidIDs([]string{"001001", "bad", "4001", "004001"}))

	id, ok := IDByName("bridal_hair")
	require.True(t, ok)
	assert.Equal(t, "001016", id)

	_, ok = IDByName("nope")
	assert.False(t, ok)

	tags := Predefined()
	assert.Len(t, FilterByCategory(tags, domain.CategoryBarber), 15)
	assert.Len(t, FilterByParent(tags, "002001"), 15)
	assert.Empty(t, FilterByParent(tags, "008001"))
}

func TestGenerateID(t *testing.T) {
	for i := 0; i < 50; i++ {
		id, err := GenerateID()
		require.NoError(t, err)
		assert.True(t, IsValidID(id))
		_, taken := Lookup(id)
		assert.False(t, taken)
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 8)
	assert.Equal(t, "001001", cats[0].PrimaryID)
	assert.Equal(t, "Optional", cats[7].DisplayName)
	assert.Empty(t, cats[7].PrimaryID)
}

func TestCheckCompatible(t *testing.T) {
	hair, _ := Lookup("001001")
	haircut, _ := Lookup("001002")
	makeup, _ := Lookup("002001")
	softGlam, _ := Lookup("002002")
	kidFriendly, _ := Lookup("008004")
	secondHair := domain.Tag{ID: "001999", Category: domain.CategoryHairStylist, Type: domain.TagTypePrimary}

	tests := []struct {
		name      string
		current   []domain.Tag
		candidate domain.Tag
		wantErr   bool
	}{
		{"first primary", nil, hair, false},
		{"primary in another category", []domain.Tag{hair}, makeup, false},
		{"second primary in same category", []domain.Tag{hair}, secondHair, true},
		{"subtag with parent held", []domain.Tag{hair}, haircut, false},
		{"subtag without parent", []domain.Tag{hair}, softGlam, true},
		{"subtag with no parent at all", nil, haircut, true},
		{"optional always allowed", nil, kidFriendly, false},
		{"orphan subtag", []domain.Tag{hair}, domain.Tag{ID: "001500", Type: domain.TagTypeSubtag}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatible(tt.current, tt.candidate)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrIncompatibleTag))
				return
			}
			require.NoError(t, err)
		})
	}
}
