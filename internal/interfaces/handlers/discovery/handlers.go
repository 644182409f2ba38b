package discovery

import (
	"strconv"
	"strings"

	discsvc "dirtex-backend/internal/application/discovery"
	"dirtex-backend/internal/config"
	"dirtex-backend/internal/middleware"
	"dirtex-backend/internal/pkg/geo"
	"dirtex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *discsvc.Service
	Config  *config.Config
}

// GET /api/v1/discovery/feed?materials=soil,gravel&sort=quantity&order=asc&lat=..&lng=..
// Subscriber status and radius come from the session, never the query.
func (h *Handlers) Feed(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	in := discsvc.Input{
		IsSubscriber: actor.IsSubscriber,
		RadiusMiles:  h.Config.RadiusFor(actor.SearchRadiusMiles),
	}

	if m := c.Query("materials"); m != "" {
		for _, t := range strings.Split(m, ",") {
			if t = strings.TrimSpace(t); t != "" {
				in.MaterialTypes = append(in.MaterialTypes, t)
			}
		}
	}

	if c.Query("sort") == "quantity" {
		order := c.Query("order", discsvc.SortQuantityAsc)
		in.QuantitySort = order
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if (latStr == "") != (lngStr == "") {
		return response.Error(c, "lat and lng must be provided together", fiber.StatusBadRequest, nil)
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return response.Error(c, "Invalid lat", fiber.StatusBadRequest, nil)
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return response.Error(c, "Invalid lng", fiber.StatusBadRequest, nil)
		}
		p := geo.NewPoint(lat, lng)
		in.ViewerLocation = &p
	}

	feed, err := h.Service.Discover(c.Context(), in)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Feed fetched successfully", feed, nil)
}
