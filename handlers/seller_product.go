package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/dtos"
	"marketplace-admin/firebase"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

// SellerProductHandler serves a seller's own products.
type SellerProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
	Log     *zap.Logger
}

func (h *SellerProductHandler) GetProducts(c *gin.Context) {
	seller, ok := currentSeller(c, h.DB)
	if !ok {
		return
	}

	query := h.DB.Preload("Images", orderedImages).Preload("Category").
		Where("seller_id = ?", seller.ID).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var products []models.Product
	if err := paginate(c, query).Find(&products).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// ownProduct loads a product of the current seller, answering 404 otherwise.
func (h *SellerProductHandler) ownProduct(c *gin.Context) (*models.Seller, *models.Product, bool) {
	seller, ok := currentSeller(c, h.DB)
	if !ok {
		return nil, nil, false
	}
	id, ok := pathID(c, "id", "product")
	if !ok {
		return nil, nil, false
	}
	product, err := loadProduct(h.DB, id, &seller.ID)
	if err != nil {
		detail(c, http.StatusNotFound, "Product not found")
		return nil, nil, false
	}
	return seller, product, true
}

func (h *SellerProductHandler) GetProduct(c *gin.Context) {
	_, product, ok := h.ownProduct(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, product)
}

func activeCategory(db *gorm.DB, id uuid.UUID) bool {
	var count int64
	db.Model(&models.Category{}).Where("id = ? AND is_active = ?", id, true).Count(&count)
	return count > 0
}

func (h *SellerProductHandler) CreateProduct(c *gin.Context) {
	seller, ok := currentSeller(c, h.DB)
	if !ok {
		return
	}

	var req dtos.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !activeCategory(h.DB, req.CategoryID) {
		detail(c, http.StatusBadRequest, "Category not found or inactive")
		return
	}
	if err := validateVariantAttributes(h.DB, req.Variants); err != nil {
		if errors.Is(err, errInvalidVariantAttribute) {
			detail(c, http.StatusBadRequest, "Invalid variant attributes")
		} else {
			detail(c, http.StatusInternalServerError, "Failed to validate variants")
		}
		return
	}

	slug, err := uniqueProductSlug(h.DB, req.Name, nil)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	rate, err := CommissionResolver{DB: h.DB}.Resolve(nil, req.CategoryID, req.SellerPrice)
	if err != nil {
		nopIfNil(h.Log).Error("commission resolution failed", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to resolve commission")
		return
	}

	status := models.ProductStatusPending
	if req.Draft {
		status = models.ProductStatusDraft
	}
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		sku = generateSKU()
	}

	product := models.Product{
		ID:               uuid.New(),
		SellerID:         seller.ID,
		CategoryID:       req.CategoryID,
		Name:             strings.TrimSpace(req.Name),
		Slug:             slug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		SKU:              sku,
		SellerPrice:      req.SellerPrice,
		StockQuantity:    req.StockQuantity,
		Status:           status,
		IsActive:         true,
		Tags:             encodeTags(req.Tags),
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
	}
	applyProductPricing(&product, rate)

	log := nopIfNil(h.Log)
	images := buildImages(c.Request.Context(), h.Storage, log, product.ID, req.Images)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images", "Variants", "Seller", "Category").Create(&product).Error; err != nil {
			return err
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		_, err := replaceVariants(tx, &product, req.Variants)
		return err
	})
	if err != nil {
		log.Error("failed to create product", zap.String("seller_id", seller.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	created, err := loadProduct(h.DB, product.ID, nil)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to load product")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *SellerProductHandler) UpdateProduct(c *gin.Context) {
	_, product, ok := h.ownProduct(c)
	if !ok {
		return
	}
	if !product.SellerEditable() {
		detail(c, http.StatusForbidden, "Approved products cannot be edited")
		return
	}

	var req dtos.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	coreChanged := false
	repriced := false

	if req.Name != nil && strings.TrimSpace(*req.Name) != product.Name {
		slug, err := uniqueProductSlug(h.DB, *req.Name, &product.ID)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to update product")
			return
		}
		product.Name = strings.TrimSpace(*req.Name)
		product.Slug = slug
		coreChanged = true
	}
	if req.Description != nil && *req.Description != product.Description {
		product.Description = *req.Description
		coreChanged = true
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if !activeCategory(h.DB, *req.CategoryID) {
			detail(c, http.StatusBadRequest, "Category not found or inactive")
			return
		}
		product.CategoryID = *req.CategoryID
		coreChanged = true
		repriced = true
	}
	if req.SellerPrice != nil && *req.SellerPrice != product.SellerPrice {
		product.SellerPrice = *req.SellerPrice
		coreChanged = true
		repriced = true
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.SKU != nil && strings.TrimSpace(*req.SKU) != "" {
		product.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Tags != nil {
		product.Tags = encodeTags(*req.Tags)
	}
	if req.MetaTitle != nil {
		product.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		product.MetaDescription = *req.MetaDescription
	}

	// Substantive edits of a product outside the review queue resubmit it.
	if (coreChanged || req.Submit) && product.Status != models.ProductStatusPending {
		if !models.IsValidProductTransition(product.Status, models.ProductStatusPending) {
			detail(c, http.StatusBadRequest, "Product cannot be resubmitted from status "+string(product.Status))
			return
		}
		product.Status = models.ProductStatusPending
		product.AdminNotes = ""
	}

	if repriced {
		rate, err := CommissionResolver{DB: h.DB}.Resolve(&product.ID, product.CategoryID, product.SellerPrice)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to resolve commission")
			return
		}
		applyProductPricing(product, rate)
	}

	log := nopIfNil(h.Log)
	var oldImages []string
	var newImages []models.ProductImage
	if req.Images != nil {
		oldImages = imageURLs(product.Images)
		newImages = buildImages(c.Request.Context(), h.Storage, log, product.ID, *req.Images)
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images", "Variants", "Seller", "Category").Save(product).Error; err != nil {
			return err
		}
		if repriced {
			if err := repriceVariants(tx, product.ID, product.CommissionRate); err != nil {
				return err
			}
		}
		if req.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			if len(newImages) > 0 {
				return tx.Create(&newImages).Error
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to update product", zap.String("id", product.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	if req.Images != nil {
		removeStoredImages(c.Request.Context(), h.DB, h.Storage, log, oldImages)
	}

	updated, err := loadProduct(h.DB, product.ID, nil)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to load product")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *SellerProductHandler) DeleteProduct(c *gin.Context) {
	_, product, ok := h.ownProduct(c)
	if !ok {
		return
	}
	if product.Status == models.ProductStatusApproved {
		detail(c, http.StatusForbidden, "Approved products cannot be deleted")
		return
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error { return deleteProductTree(tx, product.ID) }); err != nil {
		nopIfNil(h.Log).Error("failed to delete product", zap.String("id", product.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	removeStoredImages(c.Request.Context(), h.DB, h.Storage, nopIfNil(h.Log), imageURLs(product.Images))

	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Product deleted successfully"})
}

func (h *SellerProductHandler) ReplaceVariants(c *gin.Context) {
	_, product, ok := h.ownProduct(c)
	if !ok {
		return
	}
	if !product.SellerEditable() {
		detail(c, http.StatusForbidden, "Approved products cannot be edited")
		return
	}

	var req dtos.VariantsReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := validateVariantAttributes(h.DB, req.Variants); err != nil {
		if errors.Is(err, errInvalidVariantAttribute) {
			detail(c, http.StatusBadRequest, "Invalid variant attributes")
		} else {
			detail(c, http.StatusInternalServerError, "Failed to validate variants")
		}
		return
	}

	// Variants are a core edit, so rejected or blocked products go back to review.
	resubmit := product.Status == models.ProductStatusRejected || product.Status == models.ProductStatusBlocked

	var variants []models.ProductVariant
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		variants, err = replaceVariants(tx, product, req.Variants)
		if err != nil || !resubmit {
			return err
		}
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]interface{}{"status": models.ProductStatusPending, "admin_notes": ""}).Error
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to replace variants", zap.String("id", product.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to save variants")
		return
	}
	c.JSON(http.StatusOK, variants)
}

func (h *SellerProductHandler) UploadImage(c *gin.Context) {
	_, product, ok := h.ownProduct(c)
	if !ok {
		return
	}
	if !product.SellerEditable() {
		detail(c, http.StatusForbidden, "Approved products cannot be edited")
		return
	}
	if h.Storage == nil {
		detail(c, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		detail(c, http.StatusBadRequest, "image file is required")
		return
	}
	if err := utils.ValidateFileUpload(fh); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	file, err := fh.Open()
	if err != nil {
		detail(c, http.StatusBadRequest, "Failed to read image")
		return
	}
	defer file.Close()

	url, err := h.Storage.UploadProductImage(c.Request.Context(), product.ID.String(), file, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		nopIfNil(h.Log).Error("image upload failed", zap.String("product_id", product.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	isPrimary, _ := strconv.ParseBool(c.PostForm("is_primary"))
	image := models.ProductImage{
		ProductID: product.ID,
		ImageURL:  url,
		AltText:   c.PostForm("alt_text"),
		IsPrimary: isPrimary || len(product.Images) == 0,
		SortOrder: len(product.Images),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if image.IsPrimary {
			if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to save image")
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *SellerProductHandler) countByStatus(c *gin.Context, status models.ProductStatus) {
	seller, ok := currentSeller(c, h.DB)
	if !ok {
		return
	}
	var count int64
	if err := h.DB.Model(&models.Product{}).
		Where("seller_id = ? AND status = ?", seller.ID, status).Count(&count).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to count products")
		return
	}
	c.JSON(http.StatusOK, dtos.CountResponse{Count: count})
}

func (h *SellerProductHandler) PendingCount(c *gin.Context) {
	h.countByStatus(c, models.ProductStatusPending)
}

func (h *SellerProductHandler) ApprovedCount(c *gin.Context) {
	h.countByStatus(c, models.ProductStatusApproved)
}
