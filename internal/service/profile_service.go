package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/bcnelson/styla-directory/internal/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProfileService creates and edits owner profiles.
type ProfileService struct {
	store storage.Storage
	log   logrus.FieldLogger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store storage.Storage, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{store: store, log: log}
}

// applyCustomizationDefaults fills unset customization fields.
func applyCustomizationDefaults(pc *domain.ProfileCustomization) {
	if pc.ProfilePic == "" {
		pc.ProfilePic = domain.DefaultProfilePic
	}
	if pc.Background.Color == "" && !pc.Background.IsGradient() {
		pc.Background.Color = domain.DefaultBackground
	}
	if pc.TextColor == "" {
		pc.TextColor = domain.DefaultTextColor
	}
	if pc.FontFamily == "" {
		pc.FontFamily = domain.DefaultFontFamily
	}
	if pc.MarkerColor == "" {
		pc.MarkerColor = domain.DefaultMarkerColor
	}
	if pc.GalleryImages == nil {
		pc.GalleryImages = []string{}
	}
}

// Create validates req and stores a new owner with default settings unless
// req carries its own.
func (s *ProfileService) Create(ctx context.Context, req *domain.CreateOwnerRequest) (*domain.Owner, error) {
	if err := validation.ValidateOwnerProfile(req.BusinessProfile, req.ProfileCustomization); err != nil {
		return nil, err
	}

	now := time.Now()
	owner := &domain.Owner{
		ID:                   uuid.New().String(),
		BusinessProfile:      req.BusinessProfile,
		ProfileCustomization: req.ProfileCustomization,
		Settings:             domain.DefaultSettings(),
		TagIDs:               []string{},
		Favorites:            []string{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if req.Settings != nil {
		owner.Settings = *req.Settings
	}
	applyCustomizationDefaults(&owner.ProfileCustomization)

	if err := s.store.CreateOwner(ctx, owner); err != nil {
		return nil, &domain.StoreError{Op: "creating owner", ID: owner.ID, Err: err}
	}
	s.log.WithFields(logrus.Fields{
		"owner_id":      owner.ID,
		"business_name": owner.BusinessProfile.BusinessName,
	}).Info("owner created")
	return owner, nil
}

// Update replaces the owner's business profile and customization, and its
// settings when given. Tags and favorites are kept.
func (s *ProfileService) Update(ctx context.Context, id string, req *domain.UpdateOwnerRequest) (*domain.Owner, error) {
	if err := validation.ValidateOwnerProfile(req.BusinessProfile, req.ProfileCustomization); err != nil {
		return nil, err
	}
	owner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	owner.BusinessProfile = req.BusinessProfile
	owner.ProfileCustomization = req.ProfileCustomization
	applyCustomizationDefaults(&owner.ProfileCustomization)
	if req.Settings != nil {
		owner.Settings = *req.Settings
	}
	owner.UpdatedAt = time.Now()

	if err := s.store.UpdateOwner(ctx, owner); err != nil {
		return nil, &domain.StoreError{Op: "updating owner", ID: id, Err: err}
	}
	s.log.WithField("owner_id", id).Info("owner updated")
	return owner, nil
}

// Get returns the owner with id.
func (s *ProfileService) Get(ctx context.Context, id string) (*domain.Owner, error) {
	owner, err := s.store.GetOwner(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("owner %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading owner %s: %w", id, err)
	}
	return owner, nil
}

// List returns every owner in creation order.
func (s *ProfileService) List(ctx context.Context) ([]*domain.Owner, error) {
	owners, err := s.store.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	return owners, nil
}

// SetFavorites replaces the owner's favorites. Every favorite must be an
// existing owner other than the owner itself.
func (s *ProfileService) SetFavorites(ctx context.Context, id string, favorites []string) (*domain.Owner, error) {
	if len(favorites) > domain.MaxFavorites {
		return nil, fmt.Errorf("%w: %d favorites, at most %d allowed", domain.ErrTooManyFavorites, len(favorites), domain.MaxFavorites)
	}
	if err := validation.ValidateFavorites(id, favorites); err != nil {
		return nil, err
	}
	owner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var errs validation.ValidationErrors
	for i, favID := range favorites {
		if _, err := s.store.GetOwner(ctx, favID); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("loading owner %s: %w", favID, err)
			}
			errs.Add(fmt.Sprintf("favs[%d]", i), favID, "owner does not exist")
		}
	}
	if errs.HasErrors() {
		return nil, errs
	}

	owner.Favorites = append([]string{}, favorites...)
	owner.UpdatedAt = time.Now()
	if err := s.store.UpdateOwner(ctx, owner); err != nil {
		return nil, &domain.StoreError{Op: "updating favorites for owner", ID: id, Err: err}
	}
	return owner, nil
}

// Favorites returns the owner's favorite owners in favorite order, skipping
// any that no longer exist.
func (s *ProfileService) Favorites(ctx context.Context, id string) ([]*domain.Owner, error) {
	owner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Owner, 0, len(owner.Favorites))
	for _, favID := range owner.Favorites {
		fav, err := s.store.GetOwner(ctx, favID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("loading owner %s: %w", favID, err)
		}
		out = append(out, fav)
	}
	return out, nil
}
