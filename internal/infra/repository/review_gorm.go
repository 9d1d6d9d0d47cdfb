package repository

import (
	"context"
	"errors"

	"emarket/internal/domain/model"
	repo "emarket/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review model.Review) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return 0, err
	}
	return review.ID, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, reviewID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).Where("id = ?", reviewID).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

// 同じ商品への二重レビューを弾くための検索
func (r *ReviewGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, bool, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rv).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, false, nil
	}
	if err != nil {
		return model.Review{}, false, err
	}
	return rv, true, nil
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64, page int, limit int) ([]model.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return []model.Review{}, 0, err
	}

	var rows []model.Review
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return []model.Review{}, 0, err
	}

	return rows, total, nil
}

func (r *ReviewGormRepository) DeleteByID(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
