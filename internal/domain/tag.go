package domain

import "time"

// TagType places a tag in the primary/subtag/optional hierarchy.
type TagType string

const (
	TagTypePrimary  TagType = "primary"
	TagTypeSubtag   TagType = "subtag"
	TagTypeOptional TagType = "optional"
)

// TagTypes lists every tag type in display order.
var TagTypes = []TagType{TagTypePrimary, TagTypeSubtag, TagTypeOptional}

// Valid reports whether t is one of the known tag types.
func (t TagType) Valid() bool {
	switch t {
	case TagTypePrimary, TagTypeSubtag, TagTypeOptional:
		return true
	}
	return false
}

// Category is the service domain a tag belongs to.
type Category string

const (
	CategoryHairStylist  Category = "hair_stylist"
	CategoryMakeupArtist Category = "makeup_artist"
	CategoryBridal       Category = "bridal"
	CategoryBarber       Category = "barber"
	CategoryNails        Category = "nails"
	CategoryLashes       Category = "lashes"
	CategoryAesthetician Category = "aesthetician"
	CategoryOptional     Category = "optional"
)

// Categories lists every category in catalog order.
var Categories = []Category{
	CategoryHairStylist,
	CategoryMakeupArtist,
	CategoryBridal,
	CategoryBarber,
	CategoryNails,
	CategoryLashes,
	CategoryAesthetician,
	CategoryOptional,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Tag is a service tag. IDs are six-digit numeric strings; the first three
// digits encode the category block (001 hair stylist ... 008 optional).
// ParentTagID is set only on subtags and names a primary tag.
type Tag struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Category    Category  `json:"category" db:"category"`
	Type        TagType   `json:"type" db:"type"`
	ParentTagID string    `json:"parentTagId,omitempty" db:"parent_tag_id"`
	UsageCount  int       `json:"usageCount" db:"usage_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryInfo describes a category for listing endpoints.
type CategoryInfo struct {
	Category    Category `json:"category"`
	DisplayName string   `json:"displayName"`
	PrimaryID   string   `json:"primaryId,omitempty"`
}

// HierarchyReport is the result of validating the stored tag hierarchy.
// SubtagCounts maps each parent ID to the number of subtags naming it.
type HierarchyReport struct {
	Valid        bool           `json:"valid"`
	Errors       []string       `json:"errors"`
	SubtagCounts map[string]int `json:"subtagCounts"`
}

// CreateTagRequest adds a custom tag outside the predefined catalog. The ID
// is generated.
type CreateTagRequest struct {
	Name        string   `json:"name" validate:"required,max=60"`
	DisplayName string   `json:"displayName" validate:"required,max=100"`
	Category    Category `json:"category" validate:"required"`
	Type        TagType  `json:"type" validate:"required"`
	ParentTagID string   `json:"parentTagId,omitempty"`
}

// UsageStatus reports whether a debounced usage reconciliation is waiting.
type UsageStatus struct {
	Pending bool `json:"pending"`
}

// SeedResponse reports how many catalog tags were inserted.
type SeedResponse struct {
	Inserted int `json:"inserted"`
}

// ReconcileResponse reports a usage-count reconciliation run.
type ReconcileResponse struct {
	Updated int       `json:"updated"`
	RanAt   time.Time `json:"ranAt"`
}
