package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// カートの明細。(cart_id, product_id)は1行だけ。
// 価格は追加時点のスナップショット（表示用。注文時は商品の現在価格を使う）
type CartItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"uuid"`
	CartID            int64           `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID         int64           `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity          int64           `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:numeric(10,2);not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
