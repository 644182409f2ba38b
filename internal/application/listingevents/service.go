package listingevents

import (
	"context"
	"errors"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the audit trail written alongside listing mutations.
type Service struct {
	DB *gorm.DB
}

// GetListingEvents returns the event history for a listing, oldest first.
// Only the listing owner may read it. Tombstoned listings keep their events,
// so the ownership check falls back to deleted_listings when the live row is
// gone.
func (s *Service) GetListingEvents(ctx context.Context, listingID, requesterID uuid.UUID) ([]domain.ListingEvent, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error
	switch {
	case err == nil:
		if listing.OwnerID != requesterID {
			return nil, apperr.Authorization("Only the listing owner can view its history")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		var tombstone domain.DeletedListing
		if terr := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&tombstone).Error; terr != nil {
			if errors.Is(terr, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Listing not found")
			}
			return nil, terr
		}
		if tombstone.OwnerID != requesterID {
			return nil, apperr.Authorization("Only the listing owner can view its history")
		}
	default:
		return nil, err
	}

	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
