package listings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"
	"dirtex-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CreateListingInput carries everything needed to post a listing. The contact
// snapshot comes from the acting user's session; the unit is derived from the
// material type, never from the caller.
type CreateListingInput struct {
	OwnerID      uuid.UUID
	SiteName     string
	Description  string
	MaterialType string
	ListingType  string
	Quantity     decimal.Decimal
	Location     string
	Latitude     *float64
	Longitude    *float64
	Contact      domain.ContactSnapshot
}

func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if in.SiteName == "" {
		return nil, apperr.Validation("site_name is required")
	}
	unit, ok := domain.UnitFor(in.MaterialType)
	if !ok {
		return nil, apperr.Validationf("unknown material_type: %q", in.MaterialType)
	}
	if !domain.IsListingType(in.ListingType) {
		return nil, apperr.Validationf("listing_type must be %q or %q", domain.ListingTypeImport, domain.ListingTypeExport)
	}
	if !in.Quantity.IsPositive() {
		return nil, apperr.Validation("quantity must be positive")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, apperr.Validation("latitude and longitude must be provided together")
	}
	if in.Latitude != nil && !validation.IsValidCoordinates(*in.Latitude, *in.Longitude) {
		return nil, apperr.Validation("coordinates out of range")
	}

	listing := &domain.Listing{
		OwnerID:          in.OwnerID,
		SiteName:         in.SiteName,
		Description:      in.Description,
		MaterialType:     in.MaterialType,
		ListingType:      in.ListingType,
		Quantity:         in.Quantity,
		Unit:             unit,
		Location:         in.Location,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		ContactFirstName: in.Contact.FirstName,
		ContactEmail:     in.Contact.Email,
		ContactPhone:     in.Contact.Phone,
		ContactCompany:   in.Contact.Company,
		Status:           domain.StatusActive,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		eventData, _ := json.Marshal(map[string]interface{}{
			"quantity":      listing.Quantity,
			"material_type": listing.MaterialType,
			"listing_type":  listing.ListingType,
		})
		return tx.Create(&domain.ListingEvent{
			ListingID:   listing.ListingID,
			EventType:   domain.EventCreated,
			ActorUserID: &in.OwnerID,
			EventData:   datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateListingInput patches descriptive fields only. status, quantity and
// parent_listing_id are owned by the fulfillment engine and the delete path.
type UpdateListingInput struct {
	SiteName    *string
	Description *string
	Location    *string
	Latitude    *float64
	Longitude   *float64
}

func (s *Service) UpdateListing(ctx context.Context, listingID, ownerID uuid.UUID, in UpdateListingInput) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Listing not found")
		}
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, apperr.Authorization("Only the listing owner can edit it")
	}
	if listing.Status != domain.StatusActive {
		return nil, apperr.InvalidState("Only active listings can be edited")
	}

	updates := map[string]interface{}{}
	eventData := map[string]interface{}{}
	if in.SiteName != nil {
		if *in.SiteName == "" {
			return nil, apperr.Validation("site_name cannot be empty")
		}
		updates["site_name"] = *in.SiteName
		eventData["site_name"] = *in.SiteName
	}
	if in.Description != nil {
		updates["description"] = *in.Description
		eventData["description"] = *in.Description
	}
	if in.Location != nil {
		updates["location"] = *in.Location
		eventData["location"] = *in.Location
	}
	if in.Latitude != nil || in.Longitude != nil {
		if in.Latitude == nil || in.Longitude == nil {
			return nil, apperr.Validation("latitude and longitude must be provided together")
		}
		if !validation.IsValidCoordinates(*in.Latitude, *in.Longitude) {
			return nil, apperr.Validation("coordinates out of range")
		}
		updates["latitude"] = *in.Latitude
		updates["longitude"] = *in.Longitude
		eventData["latitude"] = *in.Latitude
		eventData["longitude"] = *in.Longitude
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("No valid changes provided")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&listing).Updates(updates).Error; err != nil {
			return err
		}
		b, _ := json.Marshal(eventData)
		return tx.Create(&domain.ListingEvent{
			ListingID:   listing.ListingID,
			EventType:   domain.EventUpdated,
			ActorUserID: &ownerID,
			EventData:   datatypes.JSON(b),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing)
	return &listing, nil
}

// SoftDelete writes the deleted_listings tombstone, then removes the live row,
// in one transaction.
func (s *Service) SoftDelete(ctx context.Context, listingID, actingUserID uuid.UUID) error {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Listing not found")
		}
		return err
	}
	if listing.OwnerID != actingUserID {
		return apperr.Authorization("Only the listing owner can delete it")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tombstone := domain.TombstoneOf(&listing, actingUserID, time.Now().UTC())
		if err := tx.Create(tombstone).Error; err != nil {
			return err
		}
		res := tx.Where("listing_id = ?", listingID).Delete(&domain.Listing{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Listing not found")
		}
		b, _ := json.Marshal(map[string]interface{}{"quantity": listing.Quantity, "status": listing.Status})
		return tx.Create(&domain.ListingEvent{
			ListingID:   listing.ListingID,
			EventType:   domain.EventDeleted,
			ActorUserID: &actingUserID,
			EventData:   datatypes.JSON(b),
		}).Error
	})
}

func (s *Service) GetListingByID(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

// ListByOwner returns all of an owner's listings, newest first, with their
// completion records and counterparty names embedded.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := s.DB.WithContext(ctx).
		Preload("Completions").
		Preload("Completions.Company").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, domain.StatusActive).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) ListCompletedByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := s.DB.WithContext(ctx).
		Preload("Completions").
		Preload("Completions.Company").
		Where("owner_id = ? AND status = ?", ownerID, domain.StatusCompleted).
		Order("completed_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// ListActiveAll is the discovery read path: every active listing, newest first.
func (s *Service) ListActiveAll(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := s.DB.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
