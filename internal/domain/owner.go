package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxFavorites bounds the favorites list on an owner profile.
const MaxFavorites = 5

// Owner is a business owner listed in the directory.
type Owner struct {
	ID                   string               `json:"id"`
	BusinessProfile      BusinessProfile      `json:"businessProfile"`
	ProfileCustomization ProfileCustomization `json:"profileCustomization"`
	Settings             Settings             `json:"settings"`
	TagIDs               []string             `json:"tagIds"`
	Favorites            []string             `json:"favs"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// HasTag reports whether tagID is assigned to the owner.
func (o *Owner) HasTag(tagID string) bool {
	for _, id := range o.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate slices without aliasing.
func (o *Owner) Clone() *Owner {
	c := *o
	c.TagIDs = append([]string(nil), o.TagIDs...)
	c.Favorites = append([]string(nil), o.Favorites...)
	c.ProfileCustomization.GalleryImages = append([]string(nil), o.ProfileCustomization.GalleryImages...)
	c.ProfileCustomization.Background.Gradient = append([]string(nil), o.ProfileCustomization.Background.Gradient...)
	c.Settings.Notifications.ReminderHours = append([]int(nil), o.Settings.Notifications.ReminderHours...)
	return &c
}

// BusinessProfile holds the public business details. A coordinate of exactly
// zero is treated as unset.
type BusinessProfile struct {
	BusinessName    string  `json:"businessName,omitempty" validate:"required,max=120"`
	FirstName       string  `json:"firstName,omitempty" validate:"max=60"`
	LastName        string  `json:"lastName,omitempty" validate:"max=60"`
	Bio             string  `json:"bio,omitempty" validate:"max=2000"`
	BusinessAddress string  `json:"businessAddress,omitempty" validate:"max=300"`
	BusinessLat     float64 `json:"businessLat,omitempty" validate:"min=-90,max=90"`
	BusinessLong    float64 `json:"businessLong,omitempty" validate:"min=-180,max=180"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (p BusinessProfile) HasCoordinates() bool {
	return p.BusinessLat != 0 && p.BusinessLong != 0
}

// ProfileCustomization controls how an owner's profile and map marker render.
type ProfileCustomization struct {
	ProfilePic    string      `json:"profilePic,omitempty"`
	BannerImage   string      `json:"bannerImage,omitempty"`
	Background    Background  `json:"profileBackground"`
	TextColor     string      `json:"textColor,omitempty"`
	FontFamily    string      `json:"fontFamily,omitempty"`
	MarkerColor   string      `json:"markerColor,omitempty"`
	GalleryImages []string    `json:"galleryImages,omitempty"`
	SocialLinks   SocialLinks `json:"socialLinks"`
}

// Background is either a solid colour or a two-stop gradient. On the wire it
// is a string or a two-element array.
type Background struct {
	Color    string
	Gradient []string
}

// IsGradient reports whether the background is a gradient.
func (b Background) IsGradient() bool {
	return len(b.Gradient) > 0
}

// Colors returns every colour value in the background.
func (b Background) Colors() []string {
	if b.IsGradient() {
		return b.Gradient
	}
	if b.Color == "" {
		return nil
	}
	return []string{b.Color}
}

func (b Background) MarshalJSON() ([]byte, error) {
	if b.IsGradient() {
		return json.Marshal(b.Gradient)
	}
	return json.Marshal(b.Color)
}

func (b *Background) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = Background{}
		return nil
	}
	var color string
	if err := json.Unmarshal(data, &color); err == nil {
		*b = Background{Color: color}
		return nil
	}
	var gradient []string
	if err := json.Unmarshal(data, &gradient); err != nil {
		return fmt.Errorf("profileBackground must be a colour or a pair of colours: %w", err)
	}
	if len(gradient) != 2 {
		return fmt.Errorf("profileBackground gradient needs exactly 2 colours, got %d", len(gradient))
	}
	*b = Background{Gradient: gradient}
	return nil
}

// SocialLinks are the optional external profiles shown on an owner page.
type SocialLinks struct {
	Instagram *StreamLink `json:"instagram,omitempty"`
	TikTok    *StreamLink `json:"tiktok,omitempty"`
	Website   *Link       `json:"website,omitempty"`
}

// Link is a toggleable URL.
type Link struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
}

// StreamLink is a social link whose posts may be embedded in the feed.
type StreamLink struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
	Stream  bool   `json:"stream,omitempty"`
}

// Settings groups the booking, notification and payment configuration.
type Settings struct {
	BusinessLogic BusinessLogic        `json:"businessLogic"`
	Notifications NotificationSettings `json:"notifications"`
	Payment       PaymentSettings      `json:"paymentSettings"`
}

// BusinessLogic holds booking rules.
type BusinessLogic struct {
	AutoConfirmBookings         bool `json:"autoConfirmBookings"`
	AdvanceBookingDays          int  `json:"advanceBookingDays"`
	LastMinuteCancellationHours int  `json:"lastMinuteCancellationHours"`
	SameDayBooking              bool `json:"sameDayBooking"`
	MaxBookingsPerDay           int  `json:"maxBookingsPerDay"`
	BufferTime                  int  `json:"bufferTime"` // minutes between appointments
	RequireDeposit              bool `json:"requireDeposit"`
	DepositPercentage           int  `json:"depositPercentage"`
}

// NotificationSettings holds owner notification preferences.
type NotificationSettings struct {
	EmailNotifications       bool  `json:"emailNotifications"`
	SMSNotifications         bool  `json:"smsNotifications"`
	BookingConfirmationEmail bool  `json:"bookingConfirmationEmail"`
	ReminderHours            []int `json:"reminderHours"`
}

// PaymentSettings holds accepted payment methods.
type PaymentSettings struct {
	AcceptCash   bool   `json:"acceptCash"`
	AcceptCard   bool   `json:"acceptCard"`
	AcceptOnline bool   `json:"acceptOnline"`
	Currency     string `json:"currency"`
}

// DefaultSettings returns the settings applied to new owners.
func DefaultSettings() Settings {
	return Settings{
		BusinessLogic: BusinessLogic{
			AdvanceBookingDays:          30,
			LastMinuteCancellationHours: 24,
			MaxBookingsPerDay:           8,
			BufferTime:                  15,
			RequireDeposit:              true,
			DepositPercentage:           50,
		},
		Notifications: NotificationSettings{
			EmailNotifications:       true,
			BookingConfirmationEmail: true,
			ReminderHours:            []int{24, 2},
		},
		Payment: PaymentSettings{
			AcceptCash:   true,
			AcceptCard:   true,
			AcceptOnline: true,
			Currency:     "USD",
		},
	}
}

// Default customization values for new owners.
const (
	DefaultProfilePic  = "default.png"
	DefaultBackground  = "#ffffff"
	DefaultTextColor   = "#000000"
	DefaultFontFamily  = "System"
	DefaultMarkerColor = "#007AFF"
)

// OwnerWithTags is an owner enriched with resolved tag display names.
// TagNames may be shorter than TagIDs when some IDs do not resolve.
type OwnerWithTags struct {
	Owner
	TagNames []string `json:"tagNames"`
}

// CreateOwnerRequest is the request body for the profile builder.
type CreateOwnerRequest struct {
	BusinessProfile      BusinessProfile      `json:"businessProfile"`
	ProfileCustomization ProfileCustomization `json:"profileCustomization"`
	Settings             *Settings            `json:"settings,omitempty"`
}

// UpdateOwnerRequest replaces an owner's profile and customization.
type UpdateOwnerRequest struct {
	BusinessProfile      BusinessProfile      `json:"businessProfile"`
	ProfileCustomization ProfileCustomization `json:"profileCustomization"`
	Settings             *Settings            `json:"settings,omitempty"`
}

// SetFavoritesRequest replaces an owner's favorites list.
type SetFavoritesRequest struct {
	Favorites []string `json:"favs" validate:"max=5,dive,required"`
}

// AddOwnerTagRequest assigns a tag to an owner.
type AddOwnerTagRequest struct {
	TagID string `json:"tagId" validate:"required"`
}
