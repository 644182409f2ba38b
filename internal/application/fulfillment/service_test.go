package fulfillment

import (
	"context"
	"testing"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFulfillmentTest(t *testing.T) (*Service, *gorm.DB, *domain.Company) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Listing{}, &domain.CompletedListing{}, &domain.Company{},
		&domain.ListingEvent{},
	))
	company := &domain.Company{CompanyID: uuid.New(), Name: "Haul Right Trucking", Slug: "haul-right-trucking"}
	require.NoError(t, db.Create(company).Error)
	return &Service{DB: db}, db, company
}

func seedActiveListing(t *testing.T, db *gorm.DB, quantity int64) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		OwnerID:      uuid.New(),
		SiteName:     "Eastside Grading",
		MaterialType: domain.MaterialGravel,
		ListingType:  domain.ListingTypeImport,
		Quantity:     decimal.NewFromInt(quantity),
		Unit:         domain.UnitTons,
		Status:       domain.StatusActive,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func TestCompleteListing_Full(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)
	actor := uuid.New()

	res, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  actor,
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Listing.Status)
	assert.Nil(t, res.Residual, "full fulfillment leaves no residual")
	assert.False(t, res.Replayed)

	var stored domain.Listing
	require.NoError(t, db.Where("listing_id = ?", l.ListingID).First(&stored).Error)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	var completions []domain.CompletedListing
	require.NoError(t, db.Where("listing_id = ?", l.ListingID).Find(&completions).Error)
	require.Len(t, completions, 1, "exactly one completion row per fulfillment")
	assert.True(t, completions[0].QuantityMoved.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.UnitTons, completions[0].Unit)
	assert.Equal(t, actor, completions[0].CreatedBy)
}

func TestCompleteListing_PartialSplitsResidual(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)

	res, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Residual)

	// Conservation: moved + residual == original
	assert.True(t, res.Listing.Quantity.Add(res.Residual.Quantity).Equal(decimal.NewFromInt(100)))
	assert.True(t, res.Residual.Quantity.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, domain.StatusActive, res.Residual.Status)
	require.NotNil(t, res.Residual.ParentListingID)
	assert.Equal(t, l.ListingID, *res.Residual.ParentListingID)
	assert.Equal(t, l.SiteName, res.Residual.SiteName)
	assert.Equal(t, l.OwnerID, res.Residual.OwnerID)

	// Completion references the original listing, not the residual
	var completion domain.CompletedListing
	require.NoError(t, db.Where("listing_id = ?", l.ListingID).First(&completion).Error)
	assert.True(t, completion.QuantityMoved.Equal(decimal.NewFromInt(30)))
}

func TestCompleteListing_OverClaimRejected(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)

	_, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(101),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// No partial writes survive the failure
	var stored domain.Listing
	require.NoError(t, db.Where("listing_id = ?", l.ListingID).First(&stored).Error)
	assert.Equal(t, domain.StatusActive, stored.Status)
	var count int64
	db.Model(&domain.CompletedListing{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCompleteListing_NonPositiveQuantity(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)

	for _, q := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := svc.CompleteListing(context.Background(), CompleteInput{
			ListingID:     l.ListingID,
			ActingUserID:  uuid.New(),
			CompanyID:     company.CompanyID,
			QuantityMoved: q,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), q.String())
	}
}

func TestCompleteListing_UnknownCompany(t *testing.T) {
	svc, db, _ := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)

	_, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     uuid.New(),
		QuantityMoved: decimal.NewFromInt(10),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualError(t, err, "company not found")
}

func TestCompleteListing_NotActive(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)
	require.NoError(t, db.Model(&domain.Listing{}).Where("listing_id = ?", l.ListingID).Update("status", domain.StatusCompleted).Error)

	_, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(10),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestCompleteListing_MissingListing(t *testing.T) {
	svc, _, company := setupFulfillmentTest(t)
	_, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     uuid.New(),
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(10),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestCompleteListing_SecondAttemptFails(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)

	in := CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(100),
	}
	_, err := svc.CompleteListing(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.CompleteListing(context.Background(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState), "completed listing cannot complete again")

	var count int64
	db.Model(&domain.CompletedListing{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCompleteListing_RequestIDReplay(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)
	reqID := "req-abc-123"

	in := CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(40),
		RequestID:     &reqID,
	}
	first, err := svc.CompleteListing(context.Background(), in)
	require.NoError(t, err)

	second, err := svc.CompleteListing(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Completion.CompletionID, second.Completion.CompletionID)
	require.NotNil(t, second.Residual)
	assert.Equal(t, first.Residual.ListingID, second.Residual.ListingID)

	var count int64
	db.Model(&domain.CompletedListing{}).Count(&count)
	assert.Equal(t, int64(1), count, "replay records nothing new")
}

func TestCompleteListing_WritesEvents(t *testing.T) {
	svc, db, company := setupFulfillmentTest(t)
	l := seedActiveListing(t, db, 100)

	res, err := svc.CompleteListing(context.Background(), CompleteInput{
		ListingID:     l.ListingID,
		ActingUserID:  uuid.New(),
		CompanyID:     company.CompanyID,
		QuantityMoved: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	var completedEvents []domain.ListingEvent
	require.NoError(t, db.Where("listing_id = ? AND event_type = ?", l.ListingID, domain.EventCompleted).Find(&completedEvents).Error)
	assert.Len(t, completedEvents, 1)

	var splitEvents []domain.ListingEvent
	require.NoError(t, db.Where("listing_id = ? AND event_type = ?", res.Residual.ListingID, domain.EventSplit).Find(&splitEvents).Error)
	assert.Len(t, splitEvents, 1)
}
