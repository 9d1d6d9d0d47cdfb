package repository

import (
	"context"

	"emarket/internal/domain/model"
)

type OrderStatusHistoryRepository interface {
	Create(ctx context.Context, h model.OrderStatusHistory) error
	// 新しい順
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error)
}
