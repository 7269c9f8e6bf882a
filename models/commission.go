package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommissionType string

const (
	CommissionTypeGlobal   CommissionType = "global"
	CommissionTypeCategory CommissionType = "category"
	CommissionTypeProduct  CommissionType = "product"
)

// CommissionSetting is one commission rule. EntityID names the category or
// product the rule is scoped to and is nil for global rules.
type CommissionSetting struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Type           CommissionType `gorm:"not null;index" json:"type"`
	EntityID       *uuid.UUID     `gorm:"type:uuid;index" json:"entity_id"`
	CommissionRate float64        `gorm:"not null" json:"commission_rate"`
	MinSellerPrice float64        `gorm:"default:0" json:"min_seller_price"`
	MaxSellerPrice *float64       `json:"max_seller_price"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	EffectiveFrom  time.Time      `json:"effective_from"`
	EffectiveUntil *time.Time     `json:"effective_until"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (c *CommissionSetting) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.EffectiveFrom.IsZero() {
		c.EffectiveFrom = time.Now()
	}
	return nil
}

// AppliesTo reports whether the setting is in force for sellerPrice at time now.
func (c *CommissionSetting) AppliesTo(sellerPrice float64, now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.EffectiveFrom.After(now) {
		return false
	}
	if c.EffectiveUntil != nil && c.EffectiveUntil.Before(now) {
		return false
	}
	if sellerPrice < c.MinSellerPrice {
		return false
	}
	if c.MaxSellerPrice != nil && sellerPrice > *c.MaxSellerPrice {
		return false
	}
	return true
}

func IsValidCommissionType(t CommissionType) bool {
	switch t {
	case CommissionTypeGlobal, CommissionTypeCategory, CommissionTypeProduct:
		return true
	}
	return false
}
