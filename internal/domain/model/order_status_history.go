package model

import "time"

// ステータス変更の履歴（追記のみ、更新しない）
type OrderStatusHistory struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64       `gorm:"not null;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to_status"`

	//変更した人（システム変更ならnil）
	ChangedByUserID *int64 `gorm:"index" json:"changed_by_user_id"`

	Comment   string    `gorm:"type:varchar(255)" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
