package repository

import (
	"context"

	"emarket/internal/domain/model"

	"gorm.io/gorm"
)

type OrderStatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewOrderStatusHistoryGormRepository(db *gorm.DB) *OrderStatusHistoryGormRepository {
	return &OrderStatusHistoryGormRepository{db: db}
}

// 履歴は追記のみ
func (r *OrderStatusHistoryGormRepository) Create(ctx context.Context, h model.OrderStatusHistory) error {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return err
	}
	return nil
}

// 新しい順で返す
func (r *OrderStatusHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	var rows []model.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").
		Order("id desc").
		Find(&rows).Error
	if err != nil {
		return []model.OrderStatusHistory{}, err
	}
	return rows, nil
}
