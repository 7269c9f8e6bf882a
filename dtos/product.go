package dtos

import (
	"github.com/google/uuid"

	"marketplace-admin/models"
)

type ImageInput struct {
	ImageURL  string `json:"image_url" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type VariantAttributeInput struct {
	AttributeID      uuid.UUID `json:"attribute_id" binding:"required"`
	AttributeValueID uuid.UUID `json:"attribute_value_id" binding:"required"`
}

type VariantInput struct {
	VariantName   string                  `json:"variant_name" binding:"required"`
	SKU           string                  `json:"sku"`
	SellerPrice   float64                 `json:"seller_price" binding:"gt=0"`
	StockQuantity int                     `json:"stock_quantity" binding:"gte=0"`
	IsActive      *bool                   `json:"is_active"`
	Attributes    []VariantAttributeInput `json:"attributes" binding:"dive"`
}

type ProductCreateRequest struct {
	CategoryID       uuid.UUID      `json:"category_id" binding:"required"`
	Name             string         `json:"name" binding:"required,max=200"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description" binding:"max=500"`
	SKU              string         `json:"sku"`
	SellerPrice      float64        `json:"seller_price" binding:"gt=0"`
	StockQuantity    int            `json:"stock_quantity" binding:"gte=0"`
	Tags             []string       `json:"tags"`
	MetaTitle        string         `json:"meta_title"`
	MetaDescription  string         `json:"meta_description"`
	Images           []ImageInput   `json:"images" binding:"dive"`
	Variants         []VariantInput `json:"variants" binding:"dive"`
	// Draft keeps the product out of the review queue.
	Draft bool `json:"draft"`
}

// ProductUpdateRequest changes only the fields that are set. Images, when
// present, replace the product's images.
type ProductUpdateRequest struct {
	CategoryID       *uuid.UUID    `json:"category_id"`
	Name             *string       `json:"name" binding:"omitempty,max=200"`
	Description      *string       `json:"description"`
	ShortDescription *string       `json:"short_description" binding:"omitempty,max=500"`
	SKU              *string       `json:"sku"`
	SellerPrice      *float64      `json:"seller_price" binding:"omitempty,gt=0"`
	StockQuantity    *int          `json:"stock_quantity" binding:"omitempty,gte=0"`
	IsActive         *bool         `json:"is_active"`
	Tags             *[]string     `json:"tags"`
	MetaTitle        *string       `json:"meta_title"`
	MetaDescription  *string       `json:"meta_description"`
	Images           *[]ImageInput `json:"images"`
	Submit           bool          `json:"submit"`
}

type VariantsReplaceRequest struct {
	Variants []VariantInput `json:"variants" binding:"dive"`
}

type ProductApprovalRequest struct {
	Status         models.ProductStatus `json:"status" binding:"required,oneof=approved rejected"`
	AdminNotes     string               `json:"admin_notes"`
	CommissionRate *float64             `json:"commission_rate" binding:"omitempty,gte=0,lte=100"`
}

type ProductStatusRequest struct {
	Status     models.ProductStatus `json:"status" binding:"required,oneof=approved blocked"`
	AdminNotes string               `json:"admin_notes"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
