package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/catalog"
	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

type CommissionHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *CommissionHandler) GetCommissionSettings(c *gin.Context) {
	query := h.DB.Order("effective_from DESC")

	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if c.DefaultQuery("active_only", "true") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var settings []models.CommissionSetting
	if err := paginate(c, query).Find(&settings).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch commission settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *CommissionHandler) GetCommissionSetting(c *gin.Context) {
	id, ok := pathID(c, "id", "commission setting")
	if !ok {
		return
	}

	var setting models.CommissionSetting
	if err := h.DB.First(&setting, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Commission setting not found")
		return
	}
	c.JSON(http.StatusOK, setting)
}

// checkScope verifies that entity_id matches the setting type. It writes the
// error response and returns false on failure.
func (h *CommissionHandler) checkScope(c *gin.Context, req *dtos.CommissionSettingRequest) bool {
	switch req.Type {
	case models.CommissionTypeGlobal:
		if req.EntityID != nil {
			detail(c, http.StatusBadRequest, "Global commission settings cannot have an entity_id")
			return false
		}
		return true
	case models.CommissionTypeCategory, models.CommissionTypeProduct:
		if req.EntityID == nil {
			detail(c, http.StatusBadRequest, "entity_id is required for "+string(req.Type)+" commission settings")
			return false
		}
		var model interface{} = &models.Category{}
		if req.Type == models.CommissionTypeProduct {
			model = &models.Product{}
		}
		var count int64
		if err := h.DB.Model(model).Where("id = ?", *req.EntityID).Count(&count).Error; err != nil {
			detail(c, http.StatusInternalServerError, "Failed to validate entity_id")
			return false
		}
		if count == 0 {
			detail(c, http.StatusBadRequest, "Referenced "+string(req.Type)+" not found")
			return false
		}
		return true
	}
	detail(c, http.StatusBadRequest, "Invalid commission type")
	return false
}

func (h *CommissionHandler) checkWindow(c *gin.Context, req *dtos.CommissionSettingRequest) bool {
	if req.MaxSellerPrice != nil && *req.MaxSellerPrice < req.MinSellerPrice {
		detail(c, http.StatusBadRequest, "max_seller_price must not be below min_seller_price")
		return false
	}
	if req.EffectiveFrom != nil && req.EffectiveUntil != nil && req.EffectiveUntil.Before(*req.EffectiveFrom) {
		detail(c, http.StatusBadRequest, "effective_until must be after effective_from")
		return false
	}
	return true
}

func (h *CommissionHandler) CreateCommissionSetting(c *gin.Context) {
	var req dtos.CommissionSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !h.checkScope(c, &req) || !h.checkWindow(c, &req) {
		return
	}

	setting := models.CommissionSetting{
		Type:           req.Type,
		EntityID:       req.EntityID,
		CommissionRate: *req.CommissionRate,
		MinSellerPrice: req.MinSellerPrice,
		MaxSellerPrice: req.MaxSellerPrice,
		IsActive:       true,
		EffectiveUntil: req.EffectiveUntil,
	}
	if req.EffectiveFrom != nil {
		setting.EffectiveFrom = *req.EffectiveFrom
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&setting).Error; err != nil {
			return err
		}
		if req.IsActive != nil && !*req.IsActive {
			setting.IsActive = false
			return tx.Model(&setting).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		nopIfNil(h.Log).Error("failed to create commission setting", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to create commission setting")
		return
	}

	nopIfNil(h.Log).Info("commission setting created",
		zap.String("type", string(setting.Type)),
		zap.Float64("rate", setting.CommissionRate))
	c.JSON(http.StatusCreated, setting)
}

func (h *CommissionHandler) UpdateCommissionSetting(c *gin.Context) {
	id, ok := pathID(c, "id", "commission setting")
	if !ok {
		return
	}

	var setting models.CommissionSetting
	if err := h.DB.First(&setting, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Commission setting not found")
		return
	}

	var req dtos.CommissionSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !h.checkScope(c, &req) || !h.checkWindow(c, &req) {
		return
	}

	setting.Type = req.Type
	setting.EntityID = req.EntityID
	setting.CommissionRate = *req.CommissionRate
	setting.MinSellerPrice = req.MinSellerPrice
	setting.MaxSellerPrice = req.MaxSellerPrice
	setting.EffectiveUntil = req.EffectiveUntil
	if req.EffectiveFrom != nil {
		setting.EffectiveFrom = *req.EffectiveFrom
	}
	if req.IsActive != nil {
		setting.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&setting).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to update commission setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (h *CommissionHandler) DeleteCommissionSetting(c *gin.Context) {
	id, ok := pathID(c, "id", "commission setting")
	if !ok {
		return
	}

	res := h.DB.Delete(&models.CommissionSetting{}, "id = ?", id)
	if res.Error != nil {
		detail(c, http.StatusInternalServerError, "Failed to delete commission setting")
		return
	}
	if res.RowsAffected == 0 {
		detail(c, http.StatusNotFound, "Commission setting not found")
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Commission setting deleted successfully"})
}

// globalRate is the newest global setting in force for sellerPrice, or the
// configured default.
func (h *CommissionHandler) globalRate(sellerPrice float64) (float64, error) {
	var settings []models.CommissionSetting
	if err := h.DB.Where("type = ? AND is_active = ?", models.CommissionTypeGlobal, true).
		Order("effective_from DESC").Find(&settings).Error; err != nil {
		return 0, err
	}
	return catalog.ResolveCommissionRate(settings, catalog.RateQuery{SellerPrice: sellerPrice, Now: time.Now()}, defaultCommissionRate()), nil
}

// Calculate prices a seller price; without commission_rate the global rate is used.
func (h *CommissionHandler) Calculate(c *gin.Context) {
	var req dtos.CommissionCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rate := 0.0
	if req.CommissionRate != nil {
		rate = *req.CommissionRate
	} else {
		var err error
		if rate, err = h.globalRate(req.SellerPrice); err != nil {
			detail(c, http.StatusInternalServerError, "Failed to resolve commission rate")
			return
		}
	}
	c.JSON(http.StatusOK, catalog.Calculate(req.SellerPrice, rate))
}

func (h *CommissionHandler) GetApplicableRate(c *gin.Context) {
	categoryID, ok := queryID(c, "category_id")
	if !ok {
		return
	}
	if categoryID == nil {
		detail(c, http.StatusBadRequest, "category_id is required")
		return
	}
	productID, ok := queryID(c, "product_id")
	if !ok {
		return
	}
	sellerPrice, err := strconv.ParseFloat(c.Query("seller_price"), 64)
	if err != nil || sellerPrice <= 0 {
		detail(c, http.StatusBadRequest, "seller_price must be a positive number")
		return
	}

	rate, err := CommissionResolver{DB: h.DB}.Resolve(productID, *categoryID, sellerPrice)
	if err != nil {
		nopIfNil(h.Log).Error("failed to resolve commission rate", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to resolve commission rate")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"commission_rate": rate,
		"calculation":     catalog.Calculate(sellerPrice, rate),
	})
}

func (h *CommissionHandler) GetGlobalRate(c *gin.Context) {
	rate, err := h.globalRate(0)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to resolve commission rate")
		return
	}
	c.JSON(http.StatusOK, gin.H{"global_commission_rate": rate})
}
