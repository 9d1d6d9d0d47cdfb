package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

// (user_id, idempotency_key)はユニーク。同じチェックアウトは1回だけ注文になる
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index;uniqueIndex:idx_user_idempotency_key" json:"user_id"`
	IdempotencyKey string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_idempotency_key" json:"-"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Currency       string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	IsFinalized    bool            `gorm:"not null;default:false" json:"is_finalized"`

	CustomerEmail  string         `gorm:"type:varchar(255)" json:"customer_email"`
	PhoneNumber    string         `gorm:"type:varchar(20);not null" json:"phone_number"`
	DeliveryMethod DeliveryMethod `gorm:"type:varchar(20);not null" json:"delivery_method"`

	//配送のとき
	DeliveryAddress string     `gorm:"type:varchar(255)" json:"delivery_address"`
	DeliveryTime    *time.Time `json:"delivery_time"`
	ShippingAddress string     `gorm:"type:text" json:"shipping_address"`

	//店舗受け取りのとき
	StoreAddress string `gorm:"type:varchar(255)" json:"store_address"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
