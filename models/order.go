package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusCODPending   PaymentStatus = "cod_pending"
	PaymentStatusCODCollected PaymentStatus = "cod_collected"
	PaymentStatusPaid         PaymentStatus = "paid"
	PaymentStatusRefunded     PaymentStatus = "refunded"
)

type Order struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer        *User          `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status          OrderStatus    `gorm:"default:pending;index" json:"status"`
	PaymentStatus   PaymentStatus  `gorm:"default:cod_pending" json:"payment_status"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	DeliveryAddress string         `gorm:"type:text" json:"delivery_address"`
	DeliveryCity    string         `json:"delivery_city"`
	DeliveryState   string         `json:"delivery_state"`
	DeliveryPincode string         `json:"delivery_pincode"`
	Phone           string         `json:"phone"`
	Notes           string         `gorm:"type:text" json:"notes"`
	AdminNotes      string         `gorm:"type:text" json:"admin_notes"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

type OrderItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID   *uuid.UUID `gorm:"type:uuid" json:"product_variant_id,omitempty"`
	SellerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"seller_id"`
	ProductName string     `json:"product_name"` // Snapshot of product name at time of order
	Quantity    int        `gorm:"not null" json:"quantity"`
	UnitPrice   float64    `gorm:"not null" json:"unit_price"`
	TotalPrice  float64    `gorm:"not null" json:"total_price"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "ORD" + time.Now().Format("20060102150405") + o.ID.String()[:8]
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AllowedTransitions defines the valid order status state machine.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to OrderStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether the order may still be cancelled.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusCODPending, PaymentStatusCODCollected, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}
