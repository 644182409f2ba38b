package listings

import (
	eventsvc "dirtex-backend/internal/application/listingevents"
	listsvc "dirtex-backend/internal/application/listings"
	"dirtex-backend/internal/domain"
	"dirtex-backend/internal/middleware"
	"dirtex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *listsvc.Service
	Events  *eventsvc.Service
}

type createListingRequest struct {
	SiteName     string          `json:"site_name"`
	Description  string          `json:"description"`
	MaterialType string          `json:"material_type"`
	ListingType  string          `json:"listing_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Location     string          `json:"location"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
}

// POST /api/v1/listings/create-listing — 201 with { status, message, data }.
// Contact fields come from the session, not the body.
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req createListingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	listing, err := h.Service.CreateListing(c.Context(), listsvc.CreateListingInput{
		OwnerID:      actor.UserID,
		SiteName:     req.SiteName,
		Description:  req.Description,
		MaterialType: req.MaterialType,
		ListingType:  req.ListingType,
		Quantity:     req.Quantity,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Contact: domain.ContactSnapshot{
			FirstName: actor.FirstName,
			Email:     actor.Email,
			Phone:     actor.Phone,
			Company:   actor.CompanyName,
		},
	})
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

type editListingRequest struct {
	SiteName    *string  `json:"site_name"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// PUT /api/v1/listings/edit-listing/:listing_id
func (h *Handlers) EditListing(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	var req editListingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	listing, err := h.Service.UpdateListing(c.Context(), listingID, actor.UserID, listsvc.UpdateListingInput{
		SiteName:    req.SiteName,
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Listing updated successfully", listing, nil)
}

// POST /api/v1/listings/delete-listing/:listing_id
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.SoftDelete(c.Context(), listingID, actor.UserID); err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Listing deleted successfully", fiber.Map{"listing_id": listingID}, nil)
}

// GET /api/v1/listings/get-listing/:listing_id
func (h *Handlers) GetListingByID(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.GetListingByID(c.Context(), listingID)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// GET /api/v1/listings/get-my-listings — all owner listings with completions embedded.
func (h *Handlers) GetMyListings(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.ListByOwner(c.Context(), actor.UserID)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", listings, nil)
}

// GET /api/v1/listings/get-my-active-listings
func (h *Handlers) GetMyActiveListings(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.ListActiveByOwner(c.Context(), actor.UserID)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Active listings fetched", listings, nil)
}

// GET /api/v1/listings/get-my-completed-listings
func (h *Handlers) GetMyCompletedListings(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.ListCompletedByOwner(c.Context(), actor.UserID)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Completed listings fetched", listings, nil)
}

// GET /api/v1/listings/get-listing-events/:listing_id — owner-only audit trail.
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	events, err := h.Events.GetListingEvents(c.Context(), listingID, actor.UserID)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Listing events fetched", events, nil)
}
