package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompletedListing is the immutable fulfillment record: who moved how much of
// which listing with which counterparty. Exactly one row per fulfillment
// action, referencing the original listing id (never the residual split).
type CompletedListing struct {
	CompletionID  uuid.UUID       `gorm:"column:completion_id;type:uuid;primaryKey" json:"completion_id"`
	ListingID     uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	CompanyID     uuid.UUID       `gorm:"column:company_id;type:uuid;not null" json:"company_id"`
	QuantityMoved decimal.Decimal `gorm:"column:quantity_moved;type:decimal(18,2);not null" json:"quantity_moved"`
	Unit          string          `gorm:"column:unit;type:varchar(20);not null" json:"unit"`
	MaterialType  string          `gorm:"column:material_type;type:varchar(20);not null" json:"material_type"`
	CreatedBy     uuid.UUID       `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	RequestID     *string         `gorm:"column:request_id;uniqueIndex" json:"request_id,omitempty"`
	CompletedAt   time.Time       `gorm:"column:completed_at;not null" json:"completed_at"`

	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

func (CompletedListing) TableName() string {
	return "completed_listings"
}

func (cl *CompletedListing) BeforeCreate(tx *gorm.DB) error {
	if cl.CompletionID == uuid.Nil {
		cl.CompletionID = uuid.New()
	}
	return nil
}
