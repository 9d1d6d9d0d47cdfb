package repository

import (
	"context"

	"emarket/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (int64, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, bool, error)
	ListByProductID(ctx context.Context, productID int64, page int, limit int) ([]model.Review, int64, error)
	DeleteByID(ctx context.Context, reviewID int64) error
}
