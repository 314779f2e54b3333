// Package validation checks owner profiles, favorites and request bodies.
// Struct-tag rules run through go-playground/validator; the profile rules
// that tags cannot express are checked by hand.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/go-playground/validator/v10"
)

// MaxGalleryImages bounds the gallery on an owner profile.
const MaxGalleryImages = 12

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct validates v against its `validate` tags. Failures come back as
// ValidationErrors keyed by JSON field path.
func Struct(v any) error {
	errs, err := structErrors(v, "")
	if err != nil {
		return err
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func structErrors(v any, prefix string) (ValidationErrors, error) {
	var errs ValidationErrors
	err := validate.Struct(v)
	if err == nil {
		return errs, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	for _, e := range fieldErrs {
		errs.Add(fieldPath(prefix, e.Namespace()), fmt.Sprint(e.Value()), message(e))
	}
	return errs, nil
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(prefix, namespace string) string {
	path := namespace
	if i := strings.Index(namespace, "."); i >= 0 {
		path = namespace[i+1:]
	}
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		switch e.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", e.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must have at most %s items", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gte":
		return fmt.Sprintf("cannot be less than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %q", e.Param())
	case "hexcolor":
		return "must be a hex colour such as #1a2b3c"
	case "http_url":
		return "must be an http or https URL"
	}
	return fmt.Sprintf("failed %q validation", e.Tag())
}

// ValidateHexColor checks that s is a #-prefixed hex colour.
func ValidateHexColor(s string) error {
	if err := validate.Var(s, "required,hexcolor"); err != nil {
		return fmt.Errorf("%q is not a hex colour", s)
	}
	return nil
}

// ValidateURL checks that s is an absolute http or https URL.
func ValidateURL(s string) error {
	if err := validate.Var(s, "required,http_url"); err != nil {
		return fmt.Errorf("%q is not an http or https URL", s)
	}
	return nil
}

// ValidateOwnerProfile checks the business details and customization of an
// owner profile and reports every problem found.
func ValidateOwnerProfile(bp domain.BusinessProfile, pc domain.ProfileCustomization) error {
	errs, err := structErrors(bp, "businessProfile")
	if err != nil {
		return err
	}
	if strings.TrimSpace(bp.BusinessName) == "" && !hasField(errs, "businessProfile.businessName") {
		errs.Add("businessProfile.businessName", bp.BusinessName, "is required")
	}

	for i, c := range pc.Background.Colors() {
		if err := ValidateHexColor(c); err != nil {
			errs.Add(fmt.Sprintf("profileCustomization.profileBackground[%d]", i), c, "must be a hex colour such as #1a2b3c")
		}
	}
	for field, c := range map[string]string{
		"profileCustomization.textColor":   pc.TextColor,
		"profileCustomization.markerColor": pc.MarkerColor,
	} {
		if c == "" {
			continue
		}
		if err := ValidateHexColor(c); err != nil {
			errs.Add(field, c, "must be a hex colour such as #1a2b3c")
		}
	}

	if len(pc.GalleryImages) > MaxGalleryImages {
		errs.Add("profileCustomization.galleryImages", fmt.Sprint(len(pc.GalleryImages)),
			fmt.Sprintf("must have at most %d items", MaxGalleryImages))
	}
	for i, img := range pc.GalleryImages {
		if strings.TrimSpace(img) == "" {
			errs.Add(fmt.Sprintf("profileCustomization.galleryImages[%d]", i), img, "must not be empty")
		}
	}

	links := pc.SocialLinks
	if links.Instagram != nil {
		checkLink(&errs, "instagram", links.Instagram.Enabled, links.Instagram.URL)
	}
	if links.TikTok != nil {
		checkLink(&errs, "tiktok", links.TikTok.Enabled, links.TikTok.URL)
	}
	if links.Website != nil {
		checkLink(&errs, "website", links.Website.Enabled, links.Website.URL)
	}

	if errs.HasErrors() {
		sortErrors(errs)
		return errs
	}
	return nil
}

func checkLink(errs *ValidationErrors, name string, enabled bool, url string) {
	if !enabled {
		return
	}
	if err := ValidateURL(url); err != nil {
		errs.Add("profileCustomization.socialLinks."+name+".url", url, "must be an http or https URL when the link is enabled")
	}
}

// ValidateFavorites checks a favorites list for ownerID: at most
// domain.MaxFavorites entries, no blanks, no duplicates and no self-reference.
func ValidateFavorites(ownerID string, favorites []string) error {
	var errs ValidationErrors
	if len(favorites) > domain.MaxFavorites {
		errs.Add("favs", fmt.Sprint(len(favorites)), fmt.Sprintf("must have at most %d items", domain.MaxFavorites))
	}
	seen := make(map[string]bool, len(favorites))
	for i, id := range favorites {
		field := fmt.Sprintf("favs[%d]", i)
		switch {
		case strings.TrimSpace(id) == "":
			errs.Add(field, id, "must not be empty")
		case id == ownerID:
			errs.Add(field, id, "an owner cannot favorite itself")
		case seen[id]:
			errs.Add(field, id, "is listed more than once")
		}
		seen[id] = true
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func hasField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
