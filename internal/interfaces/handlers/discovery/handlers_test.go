package discovery

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	discsvc "dirtex-backend/internal/application/discovery"
	"dirtex-backend/internal/config"
	"dirtex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDiscoveryApp(t *testing.T, subscriber bool, radius int) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Listing{}, &domain.CompletedListing{}))

	cfg := &config.Config{
		SubscriberRadiusTiers:    []int{25, 50, 100},
		DefaultSearchRadiusMiles: 50,
	}
	h := &Handlers{Service: &discsvc.Service{DB: db}, Config: cfg}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":             uuid.New().String(),
			"is_subscriber":       subscriber,
			"search_radius_miles": float64(radius),
		})
		return c.Next()
	})
	app.Get("/feed", h.Feed)
	return app, db
}

func seedFeedListing(t *testing.T, db *gorm.DB, listingType string, lat, lng float64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Listing{
		OwnerID:      uuid.New(),
		SiteName:     "site",
		MaterialType: domain.MaterialSoil,
		ListingType:  listingType,
		Quantity:     decimal.NewFromInt(10),
		Unit:         domain.UnitCubicYards,
		Latitude:     &lat,
		Longitude:    &lng,
		Status:       domain.StatusActive,
	}).Error)
}

func TestFeed_SubscriberRadiusFromSession(t *testing.T) {
	app, db := setupDiscoveryApp(t, true, 50)
	seedFeedListing(t, db, domain.ListingTypeExport, 39.0997, -94.39) // ~10 mi from KC
	seedFeedListing(t, db, domain.ListingTypeExport, 38.6270, -90.1994) // St. Louis, ~229 mi

	req := httptest.NewRequest("GET", "/feed?lat=39.0997&lng=-94.5786", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out["data"].(map[string]interface{})
	exports, _ := data["exports"].([]interface{})
	assert.Len(t, exports, 1, "listing beyond 50-mile cap dropped for subscriber")
}

func TestFeed_NonSubscriberSeesAll(t *testing.T) {
	app, db := setupDiscoveryApp(t, false, 50)
	seedFeedListing(t, db, domain.ListingTypeExport, 39.0997, -94.39)
	seedFeedListing(t, db, domain.ListingTypeExport, 38.6270, -90.1994)

	req := httptest.NewRequest("GET", "/feed?lat=39.0997&lng=-94.5786", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out["data"].(map[string]interface{})
	exports, _ := data["exports"].([]interface{})
	assert.Len(t, exports, 2)
}

func TestFeed_LoneLatRejected(t *testing.T) {
	app, _ := setupDiscoveryApp(t, false, 50)
	req := httptest.NewRequest("GET", "/feed?lat=39.0997", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFeed_InvalidOrderRejected(t *testing.T) {
	app, _ := setupDiscoveryApp(t, false, 50)
	req := httptest.NewRequest("GET", "/feed?sort=quantity&order=sideways", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFeed_PartitionKeysAlwaysPresent(t *testing.T) {
	app, _ := setupDiscoveryApp(t, false, 50)
	req := httptest.NewRequest("GET", "/feed", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out["data"].(map[string]interface{})
	require.NotNil(t, data)
	assert.Contains(t, data, "imports")
	assert.Contains(t, data, "exports")
}
