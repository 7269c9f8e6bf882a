package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/dtos"
	"marketplace-admin/firebase"
	"marketplace-admin/metrics"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

// AdminProductHandler serves product review and moderation.
type AdminProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
	Log     *zap.Logger
}

func (h *AdminProductHandler) GetProducts(c *gin.Context) {
	query := h.DB.Preload("Images", orderedImages).Preload("Category").Preload("Seller").
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	categoryID, ok := queryID(c, "category_id")
	if !ok {
		return
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	sellerID, ok := queryID(c, "seller_id")
	if !ok {
		return
	}
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	var products []models.Product
	if err := paginate(c, query).Find(&products).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetPendingProducts lists the review queue, oldest first.
func (h *AdminProductHandler) GetPendingProducts(c *gin.Context) {
	var products []models.Product
	query := h.DB.Preload("Images", orderedImages).Preload("Category").Preload("Seller").
		Where("status = ?", models.ProductStatusPending).Order("created_at ASC")
	if err := paginate(c, query).Find(&products).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch pending products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *AdminProductHandler) product(c *gin.Context) (*models.Product, bool) {
	id, ok := pathID(c, "id", "product")
	if !ok {
		return nil, false
	}
	product, err := loadProduct(h.DB, id, nil)
	if err != nil {
		detail(c, http.StatusNotFound, "Product not found")
		return nil, false
	}
	return product, true
}

func (h *AdminProductHandler) GetProduct(c *gin.Context) {
	product, ok := h.product(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *AdminProductHandler) notifySeller(product *models.Product) {
	var seller models.Seller
	if err := h.DB.Preload("User").First(&seller, "id = ?", product.SellerID).Error; err != nil || seller.User == nil {
		return
	}
	utils.SendProductReviewEmail(h.Log, seller.User.Email, seller.User.FullName(), product.Name, string(product.Status), product.AdminNotes)
}

func (h *AdminProductHandler) ApproveProduct(c *gin.Context) {
	product, ok := h.product(c)
	if !ok {
		return
	}

	var req dtos.ProductApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !models.IsValidProductTransition(product.Status, req.Status) {
		detail(c, http.StatusBadRequest, "Cannot change product status from "+string(product.Status)+" to "+string(req.Status))
		return
	}
	notes := strings.TrimSpace(req.AdminNotes)
	if req.Status == models.ProductStatusRejected && notes == "" {
		detail(c, http.StatusBadRequest, "admin_notes are required when rejecting a product")
		return
	}

	product.Status = req.Status
	product.AdminNotes = notes
	if req.Status == models.ProductStatusApproved {
		now := time.Now()
		product.ApprovalDate = &now
	} else {
		product.ApprovalDate = nil
	}
	if req.CommissionRate != nil {
		applyProductPricing(product, *req.CommissionRate)
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(product).Select("status", "admin_notes", "approval_date",
			"commission_rate", "commission_amount", "customer_price").Updates(product).Error; err != nil {
			return err
		}
		if req.CommissionRate != nil {
			return repriceVariants(tx, product.ID, product.CommissionRate)
		}
		return nil
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to review product", zap.String("id", product.ID.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	metrics.RecordReview(string(product.Status))
	h.notifySeller(product)

	reviewed, _ := loadProduct(h.DB, product.ID, nil)
	c.JSON(http.StatusOK, reviewed)
}

// UpdateProductStatus blocks or unblocks a product.
func (h *AdminProductHandler) UpdateProductStatus(c *gin.Context) {
	product, ok := h.product(c)
	if !ok {
		return
	}

	var req dtos.ProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Products still in review go through Approve and Reject.
	if product.Status != models.ProductStatusApproved && product.Status != models.ProductStatusBlocked {
		detail(c, http.StatusBadRequest, "Only approved or blocked products can change status here")
		return
	}
	if !models.IsValidProductTransition(product.Status, req.Status) {
		detail(c, http.StatusBadRequest, "Cannot change product status from "+string(product.Status)+" to "+string(req.Status))
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if notes := strings.TrimSpace(req.AdminNotes); notes != "" {
		updates["admin_notes"] = notes
	}
	if err := h.DB.Model(product).Updates(updates).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to update product status")
		return
	}
	metrics.RecordReview(string(req.Status))

	updated, _ := loadProduct(h.DB, product.ID, nil)
	c.JSON(http.StatusOK, updated)
}

func (h *AdminProductHandler) RecalculateCommission(c *gin.Context) {
	product, ok := h.product(c)
	if !ok {
		return
	}

	rate, err := CommissionResolver{DB: h.DB}.Resolve(&product.ID, product.CategoryID, product.SellerPrice)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to resolve commission")
		return
	}
	applyProductPricing(product, rate)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(product).Select("commission_rate", "commission_amount", "customer_price").
			Updates(product).Error; err != nil {
			return err
		}
		return repriceVariants(tx, product.ID, rate)
	})
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to recalculate commission")
		return
	}

	updated, _ := loadProduct(h.DB, product.ID, nil)
	c.JSON(http.StatusOK, updated)
}

func (h *AdminProductHandler) DeleteProduct(c *gin.Context) {
	product, ok := h.product(c)
	if !ok {
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
