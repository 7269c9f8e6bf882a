package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

type AttributeHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func orderedValues(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, value ASC")
}

func (h *AttributeHandler) allAttributes() ([]models.Attribute, error) {
	var attributes []models.Attribute
	err := h.DB.Preload("Values", orderedValues).Order("sort_order ASC, name ASC").Find(&attributes).Error
	return attributes, err
}

func (h *AttributeHandler) GetAttributes(c *gin.Context) {
	attributes, err := h.allAttributes()
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch attributes")
		return
	}
	c.JSON(http.StatusOK, attributes)
}

func (h *AttributeHandler) GetAttribute(c *gin.Context) {
	id, ok := pathID(c, "id", "attribute")
	if !ok {
		return
	}

	var attribute models.Attribute
	if err := h.DB.Preload("Values", orderedValues).First(&attribute, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute not found")
		return
	}
	c.JSON(http.StatusOK, attribute)
}

func (h *AttributeHandler) nameTaken(name string, self *uuid.UUID) (bool, error) {
	query := h.DB.Model(&models.Attribute{}).Where("LOWER(name) = LOWER(?)", name)
	if self != nil {
		query = query.Where("id <> ?", *self)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (h *AttributeHandler) CreateAttribute(c *gin.Context) {
	var req dtos.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	taken, err := h.nameTaken(req.Name, nil)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check attribute name")
		return
	}
	if taken {
		detail(c, http.StatusBadRequest, "Attribute with this name already exists")
		return
	}

	attribute := models.Attribute{
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		IsRequired: req.IsRequired,
		SortOrder:  req.SortOrder,
	}
	seen := map[string]bool{}
	for _, v := range req.Values {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		attribute.Values = append(attribute.Values, models.AttributeValue{Value: v, SortOrder: len(attribute.Values)})
	}

	if err := h.DB.Create(&attribute).Error; err != nil {
		nopIfNil(h.Log).Error("failed to create attribute", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to create attribute")
		return
	}

	c.JSON(http.StatusCreated, attribute)
}

func (h *AttributeHandler) UpdateAttribute(c *gin.Context) {
	id, ok := pathID(c, "id", "attribute")
	if !ok {
		return
	}

	var attribute models.Attribute
	if err := h.DB.First(&attribute, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute not found")
		return
	}

	var req dtos.AttributeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		taken, err := h.nameTaken(*req.Name, &attribute.ID)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to check attribute name")
			return
		}
		if taken {
			detail(c, http.StatusBadRequest, "Attribute with this name already exists")
			return
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsRequired != nil {
		updates["is_required"] = *req.IsRequired
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&attribute).Updates(updates).Error; err != nil {
			detail(c, http.StatusInternalServerError, "Failed to update attribute")
			return
		}
	}

	h.DB.Preload("Values", orderedValues).First(&attribute, "id = ?", id)
	c.JSON(http.StatusOK, attribute)
}

func (h *AttributeHandler) DeleteAttribute(c *gin.Context) {
	id, ok := pathID(c, "id", "attribute")
	if !ok {
		return
	}

	var attribute models.Attribute
	if err := h.DB.First(&attribute, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute not found")
		return
	}

	var linkCount int64
	if err := h.DB.Model(&models.CategoryAttribute{}).Where("attribute_id = ?", id).Count(&linkCount).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check attribute usage")
		return
	}
	if linkCount > 0 {
		detail(c, http.StatusBadRequest, "Attribute is linked to categories; unlink it first")
		return
	}

	var usage int64
	if err := h.DB.Model(&models.ProductVariantAttribute{}).Where("attribute_id = ?", id).Count(&usage).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check attribute usage")
		return
	}
	if usage > 0 {
		detail(c, http.StatusBadRequest, "Attribute is used by product variants")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&models.AttributeValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&attribute).Error
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to delete attribute", zap.String("id", id.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to delete attribute")
		return
	}

	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Attribute deleted successfully"})
}

func (h *AttributeHandler) GetAttributeValues(c *gin.Context) {
	id, ok := pathID(c, "id", "attribute")
	if !ok {
		return
	}

	var count int64
	h.DB.Model(&models.Attribute{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		detail(c, http.StatusNotFound, "Attribute not found")
		return
	}

	var values []models.AttributeValue
	if err := orderedValues(h.DB.Where("attribute_id = ?", id)).Find(&values).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch attribute values")
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *AttributeHandler) valueTaken(attributeID uuid.UUID, value string, self *uuid.UUID) (bool, error) {
	query := h.DB.Model(&models.AttributeValue{}).
		Where("attribute_id = ? AND LOWER(value) = LOWER(?)", attributeID, value)
	if self != nil {
		query = query.Where("id <> ?", *self)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (h *AttributeHandler) CreateAttributeValue(c *gin.Context) {
	var req dtos.AttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var attribute models.Attribute
	if err := h.DB.First(&attribute, "id = ?", req.AttributeID).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute not found")
		return
	}

	value := strings.TrimSpace(req.Value)
	taken, err := h.valueTaken(attribute.ID, value, nil)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check attribute value")
		return
	}
	if taken {
		detail(c, http.StatusBadRequest, "Value already exists for this attribute")
		return
	}

	av := models.AttributeValue{AttributeID: attribute.ID, Value: value, SortOrder: req.SortOrder}
	if err := h.DB.Create(&av).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to create attribute value")
		return
	}
	c.JSON(http.StatusCreated, av)
}

func (h *AttributeHandler) UpdateAttributeValue(c *gin.Context) {
	id, ok := pathID(c, "value_id", "value")
	if !ok {
		return
	}

	var av models.AttributeValue
	if err := h.DB.First(&av, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute value not found")
		return
	}

	var req dtos.AttributeValueUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Value != nil {
		value := strings.TrimSpace(*req.Value)
		taken, err := h.valueTaken(av.AttributeID, value, &av.ID)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to check attribute value")
			return
		}
		if taken {
			detail(c, http.StatusBadRequest, "Value already exists for this attribute")
			return
		}
		av.Value = value
	}
	if req.SortOrder != nil {
		av.SortOrder = *req.SortOrder
	}

	if err := h.DB.Save(&av).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to update attribute value")
		return
	}
	c.JSON(http.StatusOK, av)
}

func (h *AttributeHandler) DeleteAttributeValue(c *gin.Context) {
	id, ok := pathID(c, "value_id", "value")
	if !ok {
		return
	}

	var av models.AttributeValue
	if err := h.DB.First(&av, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute value not found")
		return
	}

	var usage int64
	if err := h.DB.Model(&models.ProductVariantAttribute{}).Where("attribute_value_id = ?", id).Count(&usage).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check value usage")
		return
	}
	if usage > 0 {
		detail(c, http.StatusBadRequest, "Value is used by product variants")
		return
	}

	if err := h.DB.Delete(&av).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to delete attribute value")
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Attribute value deleted successfully"})
}

// categoryLinks loads a category's links with attributes and their values,
// ordered by the attribute's sort order.
func (h *AttributeHandler) categoryLinks(categoryID uuid.UUID) ([]models.CategoryAttribute, error) {
	var links []models.CategoryAttribute
	err := h.DB.Preload("Attribute").Preload("Attribute.Values", orderedValues).
		Where("category_id = ?", categoryID).Find(&links).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(links, func(i, j int) bool {
		a, b := links[i].Attribute, links[j].Attribute
		if a == nil || b == nil {
			return a != nil
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
	return links, nil
}

func (h *AttributeHandler) categoryExists(id uuid.UUID) bool {
	var count int64
	h.DB.Model(&models.Category{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func (h *AttributeHandler) GetCategoryAttributes(c *gin.Context) {
	categoryID, ok := pathID(c, "category_id", "category")
	if !ok {
		return
	}
	if !h.categoryExists(categoryID) {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}

	links, err := h.categoryLinks(categoryID)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch category attributes")
		return
	}
	c.JSON(http.StatusOK, links)
}

// GetSellerCategoryAttributes serves the attributes of an active category
// to sellers building variants.
func (h *AttributeHandler) GetSellerCategoryAttributes(c *gin.Context) {
	categoryID, ok := pathID(c, "id", "category")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.First(&category, "id = ? AND is_active = ?", categoryID, true).Error; err != nil {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}

	links, err := h.categoryLinks(categoryID)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch category attributes")
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *AttributeHandler) CreateCategoryAttribute(c *gin.Context) {
	var req dtos.CategoryAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !h.categoryExists(req.CategoryID) {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}
	var attribute models.Attribute
	if err := h.DB.Preload("Values", orderedValues).First(&attribute, "id = ?", req.AttributeID).Error; err != nil {
		detail(c, http.StatusNotFound, "Attribute not found")
		return
	}

	var existing int64
	if err := h.DB.Model(&models.CategoryAttribute{}).
		Where("category_id = ? AND attribute_id = ?", req.CategoryID, req.AttributeID).
		Count(&existing).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check category attribute")
		return
	}
	if existing > 0 {
		detail(c, http.StatusBadRequest, "Attribute already linked to this category")
		return
	}

	link := models.CategoryAttribute{
		CategoryID:  req.CategoryID,
		AttributeID: req.AttributeID,
		IsRequired:  req.IsRequired,
		IsVariant:   req.IsVariant,
	}
	if err := h.DB.Create(&link).Error; err != nil {
		nopIfNil(h.Log).Error("failed to link attribute", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to link attribute")
		return
	}

	link.Attribute = &attribute
	c.JSON(http.StatusCreated, link)
}

func (h *AttributeHandler) UpdateCategoryAttribute(c *gin.Context) {
	id, ok := pathID(c, "id", "link")
	if !ok {
		return
	}

	var link models.CategoryAttribute
	if err := h.DB.First(&link, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Category attribute not found")
		return
	}

	var patch dtos.CategoryAttributeUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	if !patch.Empty() {
		if err := h.DB.Model(&link).Updates(patch.Updates()).Error; err != nil {
			detail(c, http.StatusInternalServerError, "Failed to update category attribute")
			return
		}
		patch.Apply(&link)
	}

	h.DB.Preload("Attribute").Preload("Attribute.Values", orderedValues).First(&link, "id = ?", id)
	c.JSON(http.StatusOK, link)
}

func (h *AttributeHandler) DeleteCategoryAttribute(c *gin.Context) {
	id, ok := pathID(c, "id", "link")
	if !ok {
		return
	}

	res := h.DB.Delete(&models.CategoryAttribute{}, "id = ?", id)
	if res.Error != nil {
		detail(c, http.StatusInternalServerError, "Failed to unlink attribute")
		return
	}
	if res.RowsAffected == 0 {
		detail(c, http.StatusNotFound, "Category attribute not found")
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Attribute unlinked successfully"})
}

func (h *AttributeHandler) GetAvailableAttributes(c *gin.Context) {
	categoryID, ok := pathID(c, "category_id", "category")
	if !ok {
		return
	}
	if !h.categoryExists(categoryID) {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}

	all, err := h.allAttributes()
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch attributes")
		return
	}
	var links []models.CategoryAttribute
	if err := h.DB.Where("category_id = ?", categoryID).Find(&links).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch category attributes")
		return
	}

	c.JSON(http.StatusOK, catalog.AvailableAttributes(all, links))
}
