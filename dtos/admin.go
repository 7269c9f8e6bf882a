package dtos

import (
	"time"

	"github.com/google/uuid"

	"marketplace-admin/models"
)

type UserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type SellerStatusRequest struct {
	IsActive   *bool `json:"is_active"`
	IsVerified *bool `json:"is_verified"`
	IsApproved *bool `json:"is_approved"`
}

type UserStats struct {
	TotalUsers      int64 `json:"total_users"`
	ActiveUsers     int64 `json:"active_users"`
	Admins          int64 `json:"admins"`
	Sellers         int64 `json:"sellers"`
	Customers       int64 `json:"customers"`
	VerifiedSellers int64 `json:"verified_sellers"`
	ApprovedSellers int64 `json:"approved_sellers"`
}

type OrderStatusRequest struct {
	Status     models.OrderStatus `json:"status" binding:"required"`
	AdminNotes string             `json:"admin_notes"`
}

type PaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
}

type OrderCancelRequest struct {
	Reason string `json:"reason"`
}

type OrderStats struct {
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	ProcessingOrders int64   `json:"processing_orders"`
	ShippedOrders    int64   `json:"shipped_orders"`
	DeliveredOrders  int64   `json:"delivered_orders"`
	CancelledOrders  int64   `json:"cancelled_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
}

type CommissionSettingRequest struct {
	Type           models.CommissionType `json:"type" binding:"required,oneof=global category product"`
	EntityID       *uuid.UUID            `json:"entity_id"`
	CommissionRate *float64              `json:"commission_rate" binding:"required,gte=0,lte=100"`
	MinSellerPrice float64               `json:"min_seller_price" binding:"gte=0"`
	MaxSellerPrice *float64              `json:"max_seller_price" binding:"omitempty,gt=0"`
	IsActive       *bool                 `json:"is_active"`
	EffectiveFrom  *time.Time            `json:"effective_from"`
	EffectiveUntil *time.Time            `json:"effective_until"`
}

type CommissionCalculateRequest struct {
	SellerPrice    float64  `json:"seller_price" binding:"gt=0"`
	CommissionRate *float64 `json:"commission_rate" binding:"omitempty,gte=0,lte=100"`
}

type CommissionRateResponse struct {
	CommissionRate float64 `json:"commission_rate"`
}

type DashboardStats struct {
	Users    UserStats                      `json:"users"`
	Products map[models.ProductStatus]int64 `json:"products"`
	Orders   OrderStats                     `json:"orders"`
}
