package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. first_name/email/phone/company_name are the
// contact snapshot copied onto listings at creation time; is_subscriber and
// search_radius_miles drive the discovery distance cap.
type User struct {
	UserID            uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email             string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash      string    `gorm:"column:password_hash;not null" json:"-"`
	FirstName         string    `gorm:"column:first_name;not null" json:"first_name"`
	Phone             string    `gorm:"column:phone" json:"phone"`
	CompanyName       string    `gorm:"column:company_name" json:"company_name"`
	IsSubscriber      bool      `gorm:"column:is_subscriber;not null;default:false" json:"is_subscriber"`
	SearchRadiusMiles int       `gorm:"column:search_radius_miles;not null;default:50" json:"search_radius_miles"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// ContactSnapshot is the denormalized contact block stamped onto a listing.
type ContactSnapshot struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
}
