package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttributeType string

const (
	AttributeTypeText        AttributeType = "text"
	AttributeTypeSelect      AttributeType = "select"
	AttributeTypeMultiselect AttributeType = "multiselect"
	AttributeTypeNumber      AttributeType = "number"
)

func IsValidAttributeType(t AttributeType) bool {
	switch t {
	case AttributeTypeText, AttributeTypeSelect, AttributeTypeMultiselect, AttributeTypeNumber:
		return true
	}
	return false
}

type Attribute struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name       string           `gorm:"not null" json:"name"`
	Type       AttributeType    `gorm:"not null" json:"type"`
	IsRequired bool             `gorm:"default:false" json:"is_required"`
	SortOrder  int              `gorm:"default:0" json:"sort_order"`
	Values     []AttributeValue `gorm:"foreignKey:AttributeID" json:"values"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type AttributeValue struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AttributeID uuid.UUID `gorm:"type:uuid;not null;index" json:"attribute_id"`
	Value       string    `gorm:"not null" json:"value"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryAttribute links an attribute to a category. IsRequired overrides
// the attribute's global default for products in the category; IsVariant
// makes the attribute's values drive variant generation.
type CategoryAttribute struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CategoryID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_category_attribute" json:"category_id"`
	AttributeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_category_attribute" json:"attribute_id"`
	Attribute   *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	IsRequired  bool       `gorm:"default:false" json:"is_required"`
	IsVariant   bool       `gorm:"default:false" json:"is_variant"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a *Attribute) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (v *AttributeValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (ca *CategoryAttribute) BeforeCreate(tx *gorm.DB) error {
	if ca.ID == uuid.Nil {
		ca.ID = uuid.New()
	}
	return nil
}
