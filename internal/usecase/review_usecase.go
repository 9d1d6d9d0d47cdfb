package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"emarket/internal/domain/model"
	repo "emarket/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type CreateReviewInput struct {
	Rating  int
	Comment string
}

type ReviewOutput struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListOutput struct {
	Items []ReviewOutput `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// CreateReview は商品へのレビュー作成。同じ商品には1人1件まで
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in CreateReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "rating must be 1-5")
	}
	if len(in.Comment) > 2000 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "comment too long")
	}

	//公開中の商品だけレビューできる
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	//二重レビューは409
	_, exists, err := u.reviewRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return ReviewOutput{}, NewHTTPError(http.StatusConflict, "already reviewed")
	}

	now := time.Now()
	review := model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := u.reviewRepo.Create(ctx, review)
	if err != nil {
		//unique制約に弾かれた（チェックの後に同時作成された）
		return ReviewOutput{}, NewHTTPError(http.StatusConflict, "already reviewed")
	}
	review.ID = id

	return toReviewOutput(review), nil
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64, page int, limit int) (ReviewListOutput, error) {
	if productID <= 0 {
		return ReviewListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if page < 1 {
		return ReviewListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ReviewListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	rows, total, err := u.reviewRepo.ListByProductID(ctx, productID, page, limit)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]ReviewOutput, 0, len(rows))
	for _, r := range rows {
		items = append(items, toReviewOutput(r))
	}

	return ReviewListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// DeleteReview は本人か管理者だけ
func (u *ReviewUsecase) DeleteReview(ctx context.Context, userID int64, role model.Role, reviewID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	review, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if review.UserID != userID && role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.reviewRepo.DeleteByID(ctx, reviewID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toReviewOutput(r model.Review) ReviewOutput {
	return ReviewOutput{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
