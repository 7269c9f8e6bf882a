package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace-admin/dtos"
	"marketplace-admin/models"
	"marketplace-admin/utils"
)

var (
	errOrderNotCancellable    = errors.New("order can no longer be cancelled")
	errInvalidOrderTransition = errors.New("invalid order status transition")
)

type OrderHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	query := h.DB.Preload("Items").Preload("Customer").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if payment := c.Query("payment_status"); payment != "" {
		query = query.Where("payment_status = ?", payment)
	}
	customerID, ok := queryID(c, "customer_id")
	if !ok {
		return
	}
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var orders []models.Order
	if err := paginate(c, query).Find(&orders).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetPendingOrders(c *gin.Context) {
	var orders []models.Order
	query := h.DB.Preload("Items").Preload("Customer").
		Where("status = ?", models.OrderStatusPending).
		Order("created_at ASC")
	if err := paginate(c, query).Find(&orders).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func orderStats(db *gorm.DB) (dtos.OrderStats, error) {
	var stats dtos.OrderStats
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, err
	}

	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		switch r.Status {
		case models.OrderStatusPending:
			stats.PendingOrders = r.Count
		case models.OrderStatusProcessing:
			stats.ProcessingOrders = r.Count
		case models.OrderStatusShipped:
			stats.ShippedOrders = r.Count
		case models.OrderStatusDelivered:
			stats.DeliveredOrders = r.Count
		case models.OrderStatusCancelled:
			stats.CancelledOrders = r.Count
		}
	}

	// Revenue counts everything that was not cancelled.
	err := db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	return stats, err
}

func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	stats, err := orderStats(h.DB)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to compute order stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").Preload("Customer").First(&order, "id = ?", id).Error; err != nil {
		detail(c, http.StatusNotFound, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) reload(id interface{}) (*models.Order, error) {
	var order models.Order
	err := h.DB.Preload("Items").Preload("Customer").First(&order, "id = ?", id).Error
	return &order, err
}

func (h *OrderHandler) notifyCustomer(order *models.Order) {
	if order.Customer == nil {
		return
	}
	utils.SendOrderStatusUpdate(h.Log, order.Customer.Email, order.Customer.FullName(), order.OrderNumber, string(order.Status))
}

// restoreStock returns the ordered quantities to the variant when one was
// ordered, otherwise to the product.
func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		var q *gorm.DB
		if item.VariantID != nil {
			q = tx.Model(&models.ProductVariant{}).Where("id = ?", *item.VariantID)
		} else {
			q = tx.Model(&models.Product{}).Where("id = ?", item.ProductID)
		}
		if err := q.Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	var req dtos.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var from models.OrderStatus
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		from = order.Status
		if !models.IsValidTransition(order.Status, req.Status) {
			return errInvalidOrderTransition
		}

		updates := map[string]interface{}{"status": req.Status}
		if req.AdminNotes != "" {
			updates["admin_notes"] = req.AdminNotes
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		if req.Status == models.OrderStatusCancelled {
			return restoreStock(tx, order.Items)
		}
		return nil
	})
	switch {
	case isNotFound(err):
		detail(c, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, errInvalidOrderTransition):
		detail(c, http.StatusBadRequest, "Invalid status transition from "+string(from)+" to "+string(req.Status))
		return
	case err != nil:
		nopIfNil(h.Log).Error("failed to update order status", zap.String("order_id", id.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	updated, err := h.reload(id)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	h.notifyCustomer(updated)
	c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	var req dtos.PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !models.IsValidPaymentStatus(req.PaymentStatus) {
		detail(c, http.StatusBadRequest, "Invalid payment status")
		return
	}

	res := h.DB.Model(&models.Order{}).Where("id = ?", id).Update("payment_status", req.PaymentStatus)
	if res.Error != nil {
		detail(c, http.StatusInternalServerError, "Failed to update payment status")
		return
	}
	if res.RowsAffected == 0 {
		detail(c, http.StatusNotFound, "Order not found")
		return
	}

	updated, err := h.reload(id)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id", "order")
	if !ok {
		return
	}

	var req dtos.OrderCancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		if !order.Cancellable() {
			return errOrderNotCancellable
		}

		updates := map[string]interface{}{"status": models.OrderStatusCancelled}
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			updates["admin_notes"] = reason
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		return restoreStock(tx, order.Items)
	})
	switch {
	case isNotFound(err):
		detail(c, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, errOrderNotCancellable):
		detail(c, http.StatusBadRequest, "Only pending or processing orders can be cancelled")
		return
	case err != nil:
		nopIfNil(h.Log).Error("failed to cancel order", zap.String("order_id", id.String()), zap.Error(err))
		detail(c, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	updated, err := h.reload(id)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	nopIfNil(h.Log).Info("order cancelled", zap.String("order_number", updated.OrderNumber))
	h.notifyCustomer(updated)
	c.JSON(http.StatusOK, updated)
}
