package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeletedListing is the tombstone written before a live listing row is
// removed: a full copy of the listing's fields at deletion time. Never
// mutated or removed.
type DeletedListing struct {
	ListingID    uuid.UUID       `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	OwnerID      uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	SiteName     string          `gorm:"column:site_name" json:"site_name"`
	Description  string          `gorm:"column:description" json:"description"`
	MaterialType string          `gorm:"column:material_type;type:varchar(20)" json:"material_type"`
	ListingType  string          `gorm:"column:listing_type;type:varchar(10)" json:"listing_type"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:decimal(18,2)" json:"quantity"`
	Unit         string          `gorm:"column:unit;type:varchar(20)" json:"unit"`
	Location     string          `gorm:"column:location" json:"location"`
	Latitude     *float64        `gorm:"column:latitude;type:decimal(9,6)" json:"latitude"`
	Longitude    *float64        `gorm:"column:longitude;type:decimal(9,6)" json:"longitude"`

	ContactFirstName string `gorm:"column:contact_first_name" json:"contact_first_name"`
	ContactEmail     string `gorm:"column:contact_email" json:"contact_email"`
	ContactPhone     string `gorm:"column:contact_phone" json:"contact_phone"`
	ContactCompany   string `gorm:"column:contact_company" json:"contact_company"`

	Status          string     `gorm:"column:status;type:varchar(20)" json:"status"`
	ParentListingID *uuid.UUID `gorm:"column:parent_listing_id;type:uuid" json:"parent_listing_id"`
	ListedAt        time.Time  `gorm:"column:listed_at" json:"listed_at"`

	DeletedAt time.Time `gorm:"column:deleted_at;not null" json:"deleted_at"`
	DeletedBy uuid.UUID `gorm:"column:deleted_by;type:uuid;not null" json:"deleted_by"`
}

func (DeletedListing) TableName() string {
	return "deleted_listings"
}

// TombstoneOf copies a listing into its tombstone shape.
func TombstoneOf(l *Listing, deletedBy uuid.UUID, deletedAt time.Time) *DeletedListing {
	return &DeletedListing{
		ListingID:        l.ListingID,
		OwnerID:          l.OwnerID,
		SiteName:         l.SiteName,
		Description:      l.Description,
		MaterialType:     l.MaterialType,
		ListingType:      l.ListingType,
		Quantity:         l.Quantity,
		Unit:             l.Unit,
		Location:         l.Location,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
		ContactFirstName: l.ContactFirstName,
		ContactEmail:     l.ContactEmail,
		ContactPhone:     l.ContactPhone,
		ContactCompany:   l.ContactCompany,
		Status:           l.Status,
		ParentListingID:  l.ParentListingID,
		ListedAt:         l.CreatedAt,
		DeletedAt:        deletedAt,
		DeletedBy:        deletedBy,
	}
}
