package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seller is the business profile attached to a user with the seller role.
type Seller struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BusinessName string     `gorm:"not null" json:"business_name"`
	BusinessType string     `json:"business_type"`
	Address      string     `gorm:"type:text;not null" json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Pincode      string     `gorm:"size:10" json:"pincode"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	IsApproved   bool       `gorm:"default:false" json:"is_approved"`
	ApprovalDate *time.Time `json:"approval_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (s *Seller) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
