package fulfillment

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	fulfillsvc "dirtex-backend/internal/application/fulfillment"
	"dirtex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFulfillmentApp(t *testing.T) (*fiber.App, *gorm.DB, *domain.Company, *domain.Listing) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Listing{}, &domain.CompletedListing{}, &domain.Company{},
		&domain.ListingEvent{},
	))

	company := &domain.Company{CompanyID: uuid.New(), Name: "Haul Right", Slug: "haul-right"}
	require.NoError(t, db.Create(company).Error)
	listing := &domain.Listing{
		OwnerID:      uuid.New(),
		SiteName:     "Eastside Grading",
		MaterialType: domain.MaterialGravel,
		ListingType:  domain.ListingTypeImport,
		Quantity:     decimal.NewFromInt(100),
		Unit:         domain.UnitTons,
		Status:       domain.StatusActive,
	}
	require.NoError(t, db.Create(listing).Error)

	h := &Handlers{Service: &fulfillsvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": uuid.New().String()})
		return c.Next()
	})
	app.Post("/complete-listing", h.CompleteListing)
	return app, db, company, listing
}

func TestCompleteListing_Handler_Partial(t *testing.T) {
	app, db, company, listing := setupFulfillmentApp(t)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id":     listing.ListingID.String(),
		"company_id":     company.CompanyID.String(),
		"quantity_moved": "30",
	})
	req := httptest.NewRequest("POST", "/complete-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out["data"].(map[string]interface{})
	require.NotNil(t, data)
	l, _ := data["listing"].(map[string]interface{})
	assert.Equal(t, "completed", l["status"])
	require.NotNil(t, data["residual"])

	var residual domain.Listing
	require.NoError(t, db.Where("parent_listing_id = ?", listing.ListingID).First(&residual).Error)
	assert.True(t, residual.Quantity.Equal(decimal.NewFromInt(70)))
}

func TestCompleteListing_Handler_OverClaim400(t *testing.T) {
	app, _, company, listing := setupFulfillmentApp(t)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id":     listing.ListingID.String(),
		"company_id":     company.CompanyID.String(),
		"quantity_moved": "150",
	})
	req := httptest.NewRequest("POST", "/complete-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCompleteListing_Handler_BadIDs(t *testing.T) {
	app, _, company, _ := setupFulfillmentApp(t)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id":     "nope",
		"company_id":     company.CompanyID.String(),
		"quantity_moved": "10",
	})
	req := httptest.NewRequest("POST", "/complete-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
