package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CompleteInput is the single entry point for recording a fulfillment.
// RequestID is an optional caller-supplied idempotency key: replaying the
// same request id returns the already-recorded completion instead of
// double-completing.
type CompleteInput struct {
	ListingID     uuid.UUID
	ActingUserID  uuid.UUID
	CompanyID     uuid.UUID
	QuantityMoved decimal.Decimal
	RequestID     *string
}

// CompleteResult reports the state after a fulfillment: the completed
// original, the completion record, and the residual active listing when the
// fulfillment was partial.
type CompleteResult struct {
	Listing    *domain.Listing          `json:"listing"`
	Completion *domain.CompletedListing `json:"completion"`
	Residual   *domain.Listing          `json:"residual,omitempty"`
	Replayed   bool                     `json:"replayed,omitempty"`
}

// CompleteListing runs the active → completed transition. Exactly one
// CompletedListing row is written per fulfillment; on a partial fulfillment a
// residual active listing carries the remainder under parent_listing_id. The
// whole effect is one database transaction: no partial writes survive any
// precondition failure.
func (s *Service) CompleteListing(ctx context.Context, in CompleteInput) (*CompleteResult, error) {
	var result *CompleteResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.RequestID != nil && *in.RequestID != "" {
			if replay, err := s.findReplay(tx, *in.RequestID); err != nil {
				return err
			} else if replay != nil {
				result = replay
				return nil
			}
		}

		var listing domain.Listing
		if err := tx.Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.InvalidState("Listing not found or not active")
			}
			return err
		}
		if listing.Status != domain.StatusActive {
			return apperr.InvalidState("Listing is not active")
		}

		var company domain.Company
		if err := tx.Where("company_id = ?", in.CompanyID).First(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation("company not found")
			}
			return err
		}

		if !in.QuantityMoved.IsPositive() {
			return apperr.Validation("quantity must be positive")
		}
		// Reject, never clamp: clamping here could hide a lost race and
		// break quantity conservation.
		if in.QuantityMoved.GreaterThan(listing.Quantity) {
			return apperr.Validation("quantity moved exceeds listing quantity")
		}

		now := time.Now().UTC()
		completion := &domain.CompletedListing{
			ListingID:     listing.ListingID,
			CompanyID:     company.CompanyID,
			QuantityMoved: in.QuantityMoved,
			Unit:          listing.Unit,
			MaterialType:  listing.MaterialType,
			CreatedBy:     in.ActingUserID,
			RequestID:     in.RequestID,
			CompletedAt:   now,
		}
		if err := tx.Create(completion).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("fulfillment with this request id already recorded")
			}
			return err
		}

		// Compare-and-swap on status: a concurrent completion that already
		// flipped the row leaves RowsAffected at zero and aborts this one.
		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listing.ListingID, domain.StatusActive).
			Updates(map[string]interface{}{
				"status":       domain.StatusCompleted,
				"quantity":     in.QuantityMoved,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("Listing is not active")
		}

		var residual *domain.Listing
		if in.QuantityMoved.LessThan(listing.Quantity) {
			remainder := listing.Quantity.Sub(in.QuantityMoved)
			parentID := listing.ListingID
			residual = &domain.Listing{
				OwnerID:          listing.OwnerID,
				SiteName:         listing.SiteName,
				Description:      listing.Description,
				MaterialType:     listing.MaterialType,
				ListingType:      listing.ListingType,
				Quantity:         remainder,
				Unit:             listing.Unit,
				Location:         listing.Location,
				Latitude:         listing.Latitude,
				Longitude:        listing.Longitude,
				ContactFirstName: listing.ContactFirstName,
				ContactEmail:     listing.ContactEmail,
				ContactPhone:     listing.ContactPhone,
				ContactCompany:   listing.ContactCompany,
				Status:           domain.StatusActive,
				ParentListingID:  &parentID,
			}
			if err := tx.Create(residual).Error; err != nil {
				return err
			}
			splitData, _ := json.Marshal(map[string]interface{}{
				"parent_listing_id": listing.ListingID,
				"quantity":          remainder,
			})
			if err := tx.Create(&domain.ListingEvent{
				ListingID:   residual.ListingID,
				EventType:   domain.EventSplit,
				ActorUserID: &in.ActingUserID,
				EventData:   datatypes.JSON(splitData),
			}).Error; err != nil {
				return err
			}
		}

		eventData := map[string]interface{}{
			"quantity_moved": in.QuantityMoved,
			"company_id":     company.CompanyID,
			"company_name":   company.Name,
		}
		if residual != nil {
			eventData["residual_listing_id"] = residual.ListingID
		}
		b, _ := json.Marshal(eventData)
		if err := tx.Create(&domain.ListingEvent{
			ListingID:   listing.ListingID,
			EventType:   domain.EventCompleted,
			ActorUserID: &in.ActingUserID,
			EventData:   datatypes.JSON(b),
		}).Error; err != nil {
			return err
		}

		listing.Status = domain.StatusCompleted
		listing.Quantity = in.QuantityMoved
		listing.CompletedAt = &now
		result = &CompleteResult{
			Listing:    &listing,
			Completion: completion,
			Residual:   residual,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findReplay loads the prior outcome for an idempotency key, if any.
func (s *Service) findReplay(tx *gorm.DB, requestID string) (*CompleteResult, error) {
	var completion domain.CompletedListing
	err := tx.Where("request_id = ?", requestID).First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := tx.Where("listing_id = ?", completion.ListingID).First(&listing).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	result := &CompleteResult{
		Listing:    &listing,
		Completion: &completion,
		Replayed:   true,
	}
	var residual domain.Listing
	if err := tx.Where("parent_listing_id = ?", completion.ListingID).First(&residual).Error; err == nil {
		result.Residual = &residual
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
