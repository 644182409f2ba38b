package listingevents

import (
	"context"
	"testing"
	"time"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEventsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Listing{}, &domain.DeletedListing{}, &domain.ListingEvent{},
		&domain.CompletedListing{},
	))
	return &Service{DB: db}, db
}

func TestGetListingEvents_OwnerReadsOldestFirst(t *testing.T) {
	svc, db := setupEventsTest(t)
	owner := uuid.New()
	l := &domain.Listing{
		OwnerID:      owner,
		SiteName:     "site",
		MaterialType: domain.MaterialSoil,
		ListingType:  domain.ListingTypeExport,
		Quantity:     decimal.NewFromInt(10),
		Unit:         domain.UnitCubicYards,
		Status:       domain.StatusActive,
	}
	require.NoError(t, db.Create(l).Error)

	now := time.Now().UTC()
	for i, typ := range []string{domain.EventCreated, domain.EventUpdated, domain.EventCompleted} {
		require.NoError(t, db.Create(&domain.ListingEvent{
			ListingID: l.ListingID,
			EventType: typ,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}).Error)
	}

	events, err := svc.GetListingEvents(context.Background(), l.ListingID, owner)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventCreated, events[0].EventType)
	assert.Equal(t, domain.EventCompleted, events[2].EventType)
}

func TestGetListingEvents_NonOwner(t *testing.T) {
	svc, db := setupEventsTest(t)
	l := &domain.Listing{
		OwnerID:      uuid.New(),
		SiteName:     "site",
		MaterialType: domain.MaterialSoil,
		ListingType:  domain.ListingTypeExport,
		Quantity:     decimal.NewFromInt(10),
		Unit:         domain.UnitCubicYards,
		Status:       domain.StatusActive,
	}
	require.NoError(t, db.Create(l).Error)

	_, err := svc.GetListingEvents(context.Background(), l.ListingID, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestGetListingEvents_TombstonedListing(t *testing.T) {
	svc, db := setupEventsTest(t)
	owner := uuid.New()
	listingID := uuid.New()
	require.NoError(t, db.Create(&domain.DeletedListing{
		ListingID: listingID,
		OwnerID:   owner,
		SiteName:  "gone",
		DeletedAt: time.Now().UTC(),
		DeletedBy: owner,
	}).Error)
	require.NoError(t, db.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: domain.EventDeleted,
	}).Error)

	events, err := svc.GetListingEvents(context.Background(), listingID, owner)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventDeleted, events[0].EventType)
}

func TestGetListingEvents_Missing(t *testing.T) {
	svc, _ := setupEventsTest(t)
	_, err := svc.GetListingEvents(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
