package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
	ProductStatusBlocked  ProductStatus = "blocked"
)

type Product struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SellerID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller           *Seller          `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category         *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name             string           `gorm:"not null" json:"name"`
	Slug             string           `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string           `gorm:"type:text" json:"description"`
	ShortDescription string           `json:"short_description"`
	SKU              string           `gorm:"column:sku;index" json:"sku"`
	SellerPrice      float64          `gorm:"not null" json:"seller_price"`
	CommissionRate   float64          `gorm:"not null" json:"commission_rate"`
	CommissionAmount float64          `gorm:"not null" json:"commission_amount"`
	CustomerPrice    float64          `gorm:"not null" json:"customer_price"`
	StockQuantity    int              `gorm:"default:0" json:"stock_quantity"`
	Status           ProductStatus    `gorm:"default:draft;index" json:"status"`
	AdminNotes       string           `gorm:"type:text" json:"admin_notes"`
	ApprovalDate     *time.Time       `json:"approval_date,omitempty"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	Tags             datatypes.JSON   `json:"tags"`
	MetaTitle        string           `json:"meta_title"`
	MetaDescription  string           `json:"meta_description"`
	Images           []ProductImage   `gorm:"foreignKey:ProductID" json:"images"`
	Variants         []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type ProductVariant struct {
	ID               uuid.UUID                 `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID        uuid.UUID                 `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantName      string                    `json:"variant_name"`
	SKU              string                    `gorm:"column:sku;index" json:"sku"`
	SellerPrice      float64                   `gorm:"not null" json:"seller_price"`
	CommissionRate   float64                   `gorm:"not null" json:"commission_rate"`
	CommissionAmount float64                   `gorm:"not null" json:"commission_amount"`
	CustomerPrice    float64                   `gorm:"not null" json:"customer_price"`
	StockQuantity    int                       `gorm:"default:0" json:"stock_quantity"`
	IsActive         bool                      `gorm:"default:true" json:"is_active"`
	Attributes       []ProductVariantAttribute `gorm:"foreignKey:VariantID" json:"attributes"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// ProductVariantAttribute records one attribute value selection of a variant.
type ProductVariantAttribute struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null;index" json:"variant_id"`
	AttributeID      uuid.UUID `gorm:"type:uuid;not null" json:"attribute_id"`
	AttributeValueID uuid.UUID `gorm:"type:uuid;not null" json:"attribute_value_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (a *ProductVariantAttribute) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AllowedProductTransitions defines the product review state machine.
// Deletion is handled separately and is not a status.
var AllowedProductTransitions = map[ProductStatus][]ProductStatus{
	ProductStatusDraft:    {ProductStatusPending},
	ProductStatusPending:  {ProductStatusApproved, ProductStatusRejected},
	ProductStatusApproved: {ProductStatusBlocked},
	ProductStatusBlocked:  {ProductStatusApproved, ProductStatusPending},
	ProductStatusRejected: {ProductStatusPending},
}

// IsValidProductTransition checks if a product status transition is allowed.
func IsValidProductTransition(from, to ProductStatus) bool {
	for _, s := range AllowedProductTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SellerEditable reports whether a seller may still change the product.
// Approved products are locked until an admin blocks them.
func (p *Product) SellerEditable() bool {
	return p.Status != ProductStatusApproved
}
