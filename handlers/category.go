package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/cache"
	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

type CategoryHandler struct {
	DB    *gorm.DB
	Cache cache.TreeCache
	Log   *zap.Logger
}

func (h *CategoryHandler) treeCache() cache.TreeCache {
	if h.Cache == nil {
		return cache.NoopCache{}
	}
	return h.Cache
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	query := h.DB.Order("sort_order ASC, name ASC")

	switch parent := c.Query("parent_id"); parent {
	case "":
	case "root", "null":
		query = query.Where("parent_id IS NULL")
	default:
		parentID, err := uuid.Parse(parent)
		if err != nil {
			detail(c, http.StatusBadRequest, "Invalid parent_id")
			return
		}
		query = query.Where("parent_id = ?", parentID)
	}

	active, ok := queryBool(c, "is_active")
	if !ok {
		return
	}
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// loadTree builds the category forest, from cache when possible.
func (h *CategoryHandler) loadTree(c *gin.Context, activeOnly bool) ([]*catalog.TreeNode, error) {
	variant := "all"
	if activeOnly {
		variant = "active"
	}
	if tree, ok := h.treeCache().GetTree(c.Request.Context(), variant); ok {
		return tree, nil
	}

	query := h.DB.Order("sort_order ASC, name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}

	tree := catalog.BuildTree(catalog.NodesFromCategories(categories))
	catalog.SortTree(tree, catalog.BySortOrder)
	h.treeCache().SetTree(c.Request.Context(), variant, tree)
	return tree, nil
}

func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	active, ok := queryBool(c, "active_only")
	if !ok {
		return
	}
	tree, err := h.loadTree(c, active != nil && *active)
	if err != nil {
		nopIfNil(h.Log).Error("failed to build category tree", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to fetch category tree")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetActiveCategoryTree serves sellers, who only see active categories.
func (h *CategoryHandler) GetActiveCategoryTree(c *gin.Context) {
	tree, err := h.loadTree(c, true)
	if err != nil {
		nopIfNil(h.Log).Error("failed to build category tree", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to fetch category tree")
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id", "category")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.First(&category, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) GetCategoryPath(c *gin.Context) {
	id, ok := pathID(c, "id", "category")
	if !ok {
		return
	}

	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	path := catalog.Path(catalog.NodesFromCategories(categories), id)
	if path == nil {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, path)
}

func (h *CategoryHandler) uniqueSlug(name string, self *uuid.UUID) (string, error) {
	return catalog.UniqueSlug(name, func(slug string) (bool, error) {
		query := h.DB.Unscoped().Model(&models.Category{}).Where("slug = ?", slug)
		if self != nil {
			query = query.Where("id <> ?", *self)
		}
		var count int64
		err := query.Count(&count).Error
		return count > 0, err
	})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dtos.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
		Level:       1,
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := h.DB.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
			detail(c, http.StatusNotFound, "Parent category not found")
			return
		}
		category.ParentID = &parent.ID
		category.Level = parent.Level + 1
	}

	slug, err := h.uniqueSlug(req.Name, nil)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	category.Slug = slug

	// gorm skips zero values on insert, so an inactive category needs a second write.
	inactive := req.IsActive != nil && !*req.IsActive
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		if inactive {
			return tx.Model(&category).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to create category", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	if inactive {
		category.IsActive = false
	}

	h.treeCache().Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, category)
}

// relevel rewrites the level of every descendant of parentID.
func relevel(tx *gorm.DB, parentID uuid.UUID, parentLevel int, seen map[uuid.UUID]bool) error {
	if seen[parentID] {
		return nil
	}
	seen[parentID] = true

	var children []models.Category
	if err := tx.Where("parent_id = ?", parentID).Find(&children).Error; err != nil {
		return err
	}
	for _, child := range children {
		if err := tx.Model(&child).Update("level", parentLevel+1).Error; err != nil {
			return err
		}
		if err := relevel(tx, child.ID, parentLevel+1, seen); err != nil {
			return err
		}
	}
	return nil
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id", "category")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.First(&category, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}

	var req dtos.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		slug, err := h.uniqueSlug(*req.Name, &category.ID)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to update category")
			return
		}
		category.Name = *req.Name
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	levelChanged := false
	switch {
	case req.MakeRoot:
		levelChanged = category.ParentID != nil
		category.ParentID = nil
		category.Level = 1
	case req.ParentID != nil:
		var categories []models.Category
		if err := h.DB.Find(&categories).Error; err != nil {
			detail(c, http.StatusInternalServerError, "Failed to update category")
			return
		}
		if catalog.WouldCreateCycle(catalog.NodesFromCategories(categories), category.ID, *req.ParentID) {
			detail(c, http.StatusBadRequest, catalog.ErrCycle.Error())
			return
		}
		var parent models.Category
		if err := h.DB.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
			detail(c, http.StatusNotFound, "Parent category not found")
			return
		}
		levelChanged = category.ParentID == nil || *category.ParentID != parent.ID
		category.ParentID = &parent.ID
		category.Level = parent.Level + 1
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&category).Error; err != nil {
			return err
		}
		if levelChanged {
			return relevel(tx, category.ID, category.Level, map[uuid.UUID]bool{})
		}
		return nil
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to update category", zap.String("id", id.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	h.treeCache().Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id", "category")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.First(&category, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Category not found")
		return
	}

	var childCount int64
	if err := h.DB.Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check category dependencies")
		return
	}
	if childCount > 0 {
		detail(c, http.StatusBadRequest, "Cannot delete category with subcategories")
		return
	}

	var productCount int64
	if err := h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to check category dependencies")
		return
	}
	if productCount > 0 {
		detail(c, http.StatusBadRequest, "Cannot delete category with products")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.CategoryAttribute{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to delete category", zap.String("id", id.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	h.treeCache().Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Category deleted successfully"})
}
