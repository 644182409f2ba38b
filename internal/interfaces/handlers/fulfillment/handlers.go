package fulfillment

import (
	fulfillsvc "dirtex-backend/internal/application/fulfillment"
	"dirtex-backend/internal/middleware"
	"dirtex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *fulfillsvc.Service
}

type completeListingRequest struct {
	ListingID     string          `json:"listing_id"`
	CompanyID     string          `json:"company_id"`
	QuantityMoved decimal.Decimal `json:"quantity_moved"`
	RequestID     *string         `json:"request_id"`
}

// POST /api/v1/fulfillment/complete-listing — run the active → completed
// transition; returns the completion and the residual listing when partial.
func (h *Handlers) CompleteListing(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req completeListingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return response.Error(c, "Invalid company_id format", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.CompleteListing(c.Context(), fulfillsvc.CompleteInput{
		ListingID:     listingID,
		ActingUserID:  actor.UserID,
		CompanyID:     companyID,
		QuantityMoved: req.QuantityMoved,
		RequestID:     req.RequestID,
	})
	if err != nil {
		return response.FromAppError(c, err)
	}
	if result.Replayed {
		return response.Success(c, "Fulfillment already recorded", result, nil)
	}
	return response.Success(c, "Listing completed successfully", result, nil)
}
