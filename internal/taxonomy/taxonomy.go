// Package taxonomy holds the predefined service tag catalog and the pure
// helpers that work over primary/subtag/optional hierarchies.
package taxonomy

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/bcnelson/styla-directory/internal/domain"
)

// IDLength is the number of digits in a tag ID.
const IDLength = 6

// IsValidID reports whether id is exactly six ASCII digits.
func IsValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// ValidIDs returns the well-formed IDs from ids, preserving order.
func ValidIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if IsValidID(id) {
			out = append(out, id)
		}
	}
	return out
}

// Predefined returns a copy of the seed catalog.
func Predefined() []domain.Tag {
	out := make([]domain.Tag, len(predefined))
	copy(out, predefined)
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (domain.Tag, bool) {
	for _, t := range predefined {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Tag{}, false
}

// IDByName maps a tag's internal name to its catalog ID. Several categories
// reuse names ("bridal_hair"); the first catalog entry wins.
func IDByName(name string) (string, bool) {
	for _, t := range predefined {
		if t.Name == name {
			return t.ID, true
		}
	}
	return "", false
}

// FilterByType returns the tags of type t, in input order.
func FilterByType(tags []domain.Tag, t domain.TagType) []domain.Tag {
	out := make([]domain.Tag, 0)
	for _, tag := range tags {
		if tag.Type == t {
			out = append(out, tag)
		}
	}
	return out
}

// FilterByCategory returns the tags in category c, in input order.
func FilterByCategory(tags []domain.Tag, c domain.Category) []domain.Tag {
	out := make([]domain.Tag, 0)
	for _, tag := range tags {
		if tag.Category == c {
			out = append(out, tag)
		}
	}
	return out
}

// FilterByParent returns the tags whose parent is parentID, in input order.
func FilterByParent(tags []domain.Tag, parentID string) []domain.Tag {
	out := make([]domain.Tag, 0)
	for _, tag := range tags {
		if tag.ParentTagID == parentID {
			out = append(out, tag)
		}
	}
	return out
}

// ChildSubtags returns the subtags of primaryID in input order.
func ChildSubtags(tags []domain.Tag, primaryID string) []domain.Tag {
	out := make([]domain.Tag, 0)
	for _, tag := range tags {
		if tag.Type == domain.TagTypeSubtag && tag.ParentTagID == primaryID {
			out = append(out, tag)
		}
	}
	return out
}

// RelatedTags returns the primary tag followed by its subtags, or an empty
// slice when primaryID is not in tags.
func RelatedTags(tags []domain.Tag, primaryID string) []domain.Tag {
	for _, tag := range tags {
		if tag.ID == primaryID {
			return append([]domain.Tag{tag}, ChildSubtags(tags, primaryID)...)
		}
	}
	return []domain.Tag{}
}

// SubtagsForPrimaries returns subtags whose parent is any of primaryIDs.
func SubtagsForPrimaries(tags []domain.Tag, primaryIDs []string) []domain.Tag {
	wanted := make(map[string]bool, len(primaryIDs))
	for _, id := range primaryIDs {
		wanted[id] = true
	}
	out := make([]domain.Tag, 0)
	for _, tag := range tags {
		if tag.Type == domain.TagTypeSubtag && tag.ParentTagID != "" && wanted[tag.ParentTagID] {
			out = append(out, tag)
		}
	}
	return out
}

// ParentTag returns the parent of subtagID, if both are present in tags.
func ParentTag(tags []domain.Tag, subtagID string) (domain.Tag, bool) {
	var parentID string
	for _, tag := range tags {
		if tag.ID == subtagID {
			parentID = tag.ParentTagID
			break
		}
	}
	if parentID == "" {
		return domain.Tag{}, false
	}
	for _, tag := range tags {
		if tag.ID == parentID {
			return tag, true
		}
	}
	return domain.Tag{}, false
}

// GroupSubtagsByParent buckets subtags by parent ID.
func GroupSubtagsByParent(tags []domain.Tag) map[string][]domain.Tag {
	groups := make(map[string][]domain.Tag)
	for _, tag := range tags {
		if tag.Type == domain.TagTypeSubtag && tag.ParentTagID != "" {
			groups[tag.ParentTagID] = append(groups[tag.ParentTagID], tag)
		}
	}
	return groups
}

// IsValidSubtagFor reports whether subtag is a subtag of primaryID.
func IsValidSubtagFor(subtag domain.Tag, primaryID string) bool {
	return subtag.Type == domain.TagTypeSubtag && subtag.ParentTagID == primaryID
}

// ValidateHierarchy checks that every subtag names a parent and that the
// parent is a primary tag in the same collection. It reports all problems.
func ValidateHierarchy(tags []domain.Tag) []string {
	primaries := make(map[string]bool)
	for _, tag := range tags {
		if tag.Type == domain.TagTypePrimary {
			primaries[tag.ID] = true
		}
	}

	errs := make([]string, 0)
	for _, tag := range tags {
		if tag.Type != domain.TagTypeSubtag {
			continue
		}
		switch {
		case tag.ParentTagID == "":
			errs = append(errs, fmt.Sprintf("subtag %q (%s) has no parent tag", tag.DisplayName, tag.ID))
		case !primaries[tag.ParentTagID]:
			errs = append(errs, fmt.Sprintf("subtag %q (%s) has invalid parent tag ID: %s", tag.DisplayName, tag.ID, tag.ParentTagID))
		}
	}
	return errs
}

// CategoryDisplayName returns the label used for a category in listings.
func CategoryDisplayName(c domain.Category) string {
	switch c {
	case domain.CategoryHairStylist:
		return "Hair Stylist"
	case domain.CategoryMakeupArtist:
		return "Makeup Artist"
	case domain.CategoryBridal:
		return "Bridal"
	case domain.CategoryBarber:
		return "Barber"
	case domain.CategoryNails:
		return "Nails"
	case domain.CategoryLashes:
		return "Lashes"
	case domain.CategoryAesthetician:
		return "Aesthetician"
	case domain.CategoryOptional:
		return "Optional"
	}
	return string(c)
}

// Categories describes every category with its catalog primary tag.
func Categories() []domain.CategoryInfo {
	out := make([]domain.CategoryInfo, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		info := domain.CategoryInfo{Category: c, DisplayName: CategoryDisplayName(c)}
		for _, t := range predefined {
			if t.Category == c && t.Type == domain.TagTypePrimary {
				info.PrimaryID = t.ID
				break
			}
		}
		out = append(out, info)
	}
	return out
}

// GenerateID returns a random six-digit ID that is not in the catalog.
func GenerateID() (string, error) {
	span := big.NewInt(900000)
	for {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return "", fmt.Errorf("generating tag ID: %w", err)
		}
		id := fmt.Sprintf("%06d", n.Int64()+100000)
		if _, taken := Lookup(id); !taken {
			return id, nil
		}
	}
}
