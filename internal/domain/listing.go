package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing is a posted offer to supply (Export) or request (Import) a quantity
// of construction material at a site. Contact fields are a snapshot of the
// owning user at creation time, never re-joined.
type Listing struct {
	ListingID    uuid.UUID       `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	OwnerID      uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	SiteName     string          `gorm:"column:site_name;not null" json:"site_name"`
	Description  string          `gorm:"column:description" json:"description"`
	MaterialType string          `gorm:"column:material_type;type:varchar(20);not null" json:"material_type"`
	ListingType  string          `gorm:"column:listing_type;type:varchar(10);not null" json:"listing_type"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:decimal(18,2);not null" json:"quantity"`
	Unit         string          `gorm:"column:unit;type:varchar(20);not null" json:"unit"`
	Location     string          `gorm:"column:location" json:"location"`
	Latitude     *float64        `gorm:"column:latitude;type:decimal(9,6)" json:"latitude"`
	Longitude    *float64        `gorm:"column:longitude;type:decimal(9,6)" json:"longitude"`

	ContactFirstName string `gorm:"column:contact_first_name" json:"contact_first_name"`
	ContactEmail     string `gorm:"column:contact_email" json:"contact_email"`
	ContactPhone     string `gorm:"column:contact_phone" json:"contact_phone"`
	ContactCompany   string `gorm:"column:contact_company" json:"contact_company"`

	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	ParentListingID *uuid.UUID `gorm:"column:parent_listing_id;type:uuid;index" json:"parent_listing_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at"`

	// Completions joins the fulfillment records for this listing (owner reads).
	Completions []CompletedListing `gorm:"foreignKey:ListingID;references:ListingID" json:"completions,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets listing_id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}

// HasCoordinates reports whether the listing can take part in distance-based
// filtering and sorting.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
