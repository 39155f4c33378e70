package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string
type FulfillmentType string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusBaking    OrderStatus = "baking"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"

	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Subtotal        float64         `gorm:"not null" json:"subtotal"`
	VoucherID       *uint           `gorm:"index" json:"voucher_id,omitempty"`
	VoucherCode     string          `gorm:"type:varchar(50)" json:"voucher_code,omitempty"`
	VoucherDiscount float64         `gorm:"default:0" json:"voucher_discount"`
	DeliveryFee     float64         `gorm:"default:0" json:"delivery_fee"`
	TotalAmount     float64         `gorm:"not null" json:"total_amount"` // subtotal - discount + fee, floored at 0
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	ReceivedAmount  float64         `gorm:"default:0" json:"received_amount"` // cash only
	ChangeAmount    float64         `gorm:"default:0" json:"change_amount"`   // cash only: received - total
	FulfillmentType FulfillmentType `gorm:"type:varchar(20);default:'delivery'" json:"fulfillment_type"`
	DeliveryAddress string          `gorm:"type:text" json:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Voucher    *Voucher    `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	OrderID       uint           `gorm:"not null;index" json:"order_id"`
	ProductID     uint           `gorm:"not null;index" json:"product_id"`
	OrderDay      OrderDay       `gorm:"type:varchar(10);not null" json:"order_day"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	Price         float64        `gorm:"not null" json:"price"` // unit price incl. addons at checkout
	ProductName   string         `json:"product_name"`          // name snapshot
	AddonSnapshot string         `gorm:"type:text" json:"addon_snapshot"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
