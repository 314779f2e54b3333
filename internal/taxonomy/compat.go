package taxonomy

import (
	"fmt"

	"github.com/bcnelson/styla-directory/internal/domain"
)

// CheckCompatible reports whether candidate may be added to an owner that
// already holds current. An owner holds at most one primary per category, and
// a subtag needs its parent primary assigned first. The returned error wraps
// domain.ErrIncompatibleTag.
func CheckCompatible(current []domain.Tag, candidate domain.Tag) error {
	switch candidate.Type {
	case domain.TagTypePrimary:
		for _, t := range current {
			if t.Type == domain.TagTypePrimary && t.Category == candidate.Category {
				return fmt.Errorf("%w: owner already has primary tag %s in category %s",
					domain.ErrIncompatibleTag, t.ID, candidate.Category)
			}
		}
	case domain.TagTypeSubtag:
		if candidate.ParentTagID == "" {
			return fmt.Errorf("%w: subtag %s has no parent tag", domain.ErrIncompatibleTag, candidate.ID)
		}
		for _, t := range current {
			if t.ID == candidate.ParentTagID {
				return nil
			}
		}
		return fmt.Errorf("%w: subtag %s requires parent tag %s",
			domain.ErrIncompatibleTag, candidate.ID, candidate.ParentTagID)
	}
	return nil
}
