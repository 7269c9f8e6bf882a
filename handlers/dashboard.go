package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

type DashboardHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	users, err := (&UserHandler{DB: h.DB}).userStats()
	if err != nil {
		nopIfNil(h.Log).Error("dashboard user stats failed", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	orders, err := orderStats(h.DB)
	if err != nil {
		nopIfNil(h.Log).Error("dashboard order stats failed", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	var rows []struct {
		Status models.ProductStatus
		Count  int64
	}
	if err := h.DB.Model(&models.Product{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		nopIfNil(h.Log).Error("dashboard product stats failed", zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	products := map[models.ProductStatus]int64{}
	for _, s := range []models.ProductStatus{
		models.ProductStatusDraft, models.ProductStatusPending, models.ProductStatusApproved,
		models.ProductStatusRejected, models.ProductStatusBlocked,
	} {
		products[s] = 0
	}
	for _, r := range rows {
		products[r.Status] = r.Count
	}

	c.JSON(http.StatusOK, dtos.DashboardStats{Users: users, Products: products, Orders: orders})
}
