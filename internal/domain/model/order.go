package model

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// 確定済みの注文。作成後は明細・金額とも不変で、
// statusだけが管理側から進められる。
// final_amount == total_amount + delivery_charges が常に成り立つ
type Order struct {
	ID                  string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderNumber         string         `gorm:"column:order_number;type:varchar(20);not null;index" json:"order_number"`
	UserID              string         `gorm:"column:user_id;type:varchar(36);not null;index" json:"user_id"`
	TotalAmount         float64        `gorm:"column:total_amount;not null" json:"total_amount"`
	DeliveryCharges     float64        `gorm:"column:delivery_charges;not null" json:"delivery_charges"`
	FinalAmount         float64        `gorm:"column:final_amount;not null" json:"final_amount"`
	Status              OrderStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus       PaymentStatus  `gorm:"column:payment_status;type:varchar(20);not null" json:"payment_status"`
	PaymentMethod       string         `gorm:"column:payment_method;type:varchar(20);not null;default:'cod'" json:"payment_method"`
	DeliverySlot        string         `gorm:"column:delivery_slot;type:varchar(50)" json:"delivery_slot"`
	SpecialInstructions string         `gorm:"column:special_instructions;type:text" json:"special_instructions"`
	DeliveryAddress     datatypes.JSON `gorm:"column:delivery_address" json:"delivery_address"`
	CreatedAt           time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
