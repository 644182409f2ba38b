package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the counterparty directory entry selectable at fulfillment time.
type Company struct {
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;primaryKey" json:"company_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Industry    string    `gorm:"column:industry" json:"industry"`
	Phone       string    `gorm:"column:phone" json:"phone"`
	Website     string    `gorm:"column:website" json:"website"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

func (co *Company) BeforeCreate(tx *gorm.DB) error {
	if co.CompanyID == uuid.Nil {
		co.CompanyID = uuid.New()
	}
	return nil
}
