package dtos

import (
	"github.com/google/uuid"

	"marketplace-admin/catalog"
	"marketplace-admin/models"
)

type CategoryRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
	IsActive    *bool      `json:"is_active"`
}

// CategoryUpdateRequest changes only the fields that are set. MakeRoot
// detaches the category from its parent.
type CategoryUpdateRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=100"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	MakeRoot    bool       `json:"make_root"`
	SortOrder   *int       `json:"sort_order"`
	IsActive    *bool      `json:"is_active"`
}

type AttributeRequest struct {
	Name       string               `json:"name" binding:"required,max=100"`
	Type       models.AttributeType `json:"type" binding:"required,oneof=text select multiselect number"`
	IsRequired bool                 `json:"is_required"`
	SortOrder  int                  `json:"sort_order"`
	Values     []string             `json:"values"`
}

type AttributeUpdateRequest struct {
	Name       *string               `json:"name" binding:"omitempty,max=100"`
	Type       *models.AttributeType `json:"type" binding:"omitempty,oneof=text select multiselect number"`
	IsRequired *bool                 `json:"is_required"`
	SortOrder  *int                  `json:"sort_order"`
}

type AttributeValueRequest struct {
	AttributeID uuid.UUID `json:"attribute_id" binding:"required"`
	Value       string    `json:"value" binding:"required,max=100"`
	SortOrder   int       `json:"sort_order"`
}

type AttributeValueUpdateRequest struct {
	Value     *string `json:"value" binding:"omitempty,max=100"`
	SortOrder *int    `json:"sort_order"`
}

type CategoryAttributeRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	AttributeID uuid.UUID `json:"attribute_id" binding:"required"`
	IsRequired  bool      `json:"is_required"`
	IsVariant   bool      `json:"is_variant"`
}

// CategoryAttributeUpdate flips the link flags that are present.
type CategoryAttributeUpdate = catalog.LinkPatch
