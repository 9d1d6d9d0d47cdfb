package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文時点の商品名と価格のスナップショット。後から商品が変わっても明細は変わらない
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"order_id"`
	ProductID   int64           `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
