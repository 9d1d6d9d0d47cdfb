package usecase

import (
	"errors"
	"fmt"

	"emarket/internal/domain/model"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ここから下は業務ルールの失敗。
// インフラ障害（db error）と区別して、呼び出し側がリトライか表示かを決められるようにする

// カートが空のままチェックアウトした
var ErrEmptyCart = errors.New("cart is empty")

// カートに入っていた商品が消えていた（データ不整合なのでerrorログ対象）
type ProductMissingError struct {
	ProductID int64
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// 在庫不足。残り数量を持たせてユーザーに見せられるようにする
type OutOfStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// 許可されていないステータス遷移
type InvalidTransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}
