package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"emarket/internal/domain/model"
	repo "emarket/internal/repository"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderUsecase struct {
	tx  repo.TransactionManager
	log *logrus.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, log *logrus.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, log: log}
}

type PlaceOrderInput struct {
	IdempotencyKey  string
	CustomerEmail   string
	PhoneNumber     string
	DeliveryMethod  string
	DeliveryAddress string
	DeliveryTime    *time.Time
	ShippingAddress string
	StoreAddress    string
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type StatusHistoryOutput struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  *int64    `json:"changed_by"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderOutput struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"user_id"`
	Status     string                `json:"status"`
	TotalPrice decimal.Decimal       `json:"total_price"`
	Currency   string                `json:"currency"`
	CreatedAt  time.Time             `json:"created_at"`
	Items      []OrderItemOutput     `json:"items"`
	History    []StatusHistoryOutput `json:"history,omitempty"`
}

// PlaceOrderはカートを注文に変える。全体が1トランザクション。
// 2つ目の戻り値は「この呼び出しで新しく作られたか」（リトライで既存を返したときはfalse）
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, bool, error) {
	if userID <= 0 {
		return OrderOutput{}, false, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//キーはクライアント必須。サーバー側で生成するとリトライのたびに別キーになって冪等にならない
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 64 {
		return OrderOutput{}, false, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	method := model.DeliveryMethod(in.DeliveryMethod)
	if method != model.DeliveryMethodDelivery && method != model.DeliveryMethodPickup {
		return OrderOutput{}, false, NewHTTPError(http.StatusBadRequest, "invalid delivery_method")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return OrderOutput{}, false, NewHTTPError(http.StatusBadRequest, "phone_number required")
	}

	u.log.WithFields(logrus.Fields{
		"user_id":         userID,
		"idempotency_key": key,
	}).Info("checkout_started")

	var out OrderOutput
	wasCreated := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 1) 同じキーの注文が既にあればロックして返す（リトライ安全）
		existing, found, err := r.Orders().FindByIdempotencyKeyForUpdate(ctx, userID, key)
		if err != nil {
			return err
		}
		if found {
			u.log.WithFields(logrus.Fields{
				"order_id": existing.ID,
				"user_id":  userID,
			}).Info("checkout_idempotent_hit")

			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return err
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		// 2) ACTIVEカートの明細をproduct_id昇順で取得。
		//    この順番がそのまま商品ロックの順番になる
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			u.log.WithField("user_id", userID).Warn("checkout_empty_cart")
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}

		cartItems, err := r.CartItems().ListByCartIDOrderedByProduct(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			u.log.WithField("user_id", userID).Warn("checkout_empty_cart")
			return ErrEmptyCart
		}

		// 3) 商品行をid昇順でFOR UPDATEロック
		productIDs := lo.Map(cartItems, func(ci model.CartItem, _ int) int64 { return ci.ProductID })
		products, err := r.Products().LockByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		byID := lo.KeyBy(products, func(p model.Product) int64 { return p.ID })

		// 4) 在庫チェック＋即減算。名前と価格はこの時点のスナップショットを取る
		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(cartItems))

		for _, ci := range cartItems {
			p, ok := byID[ci.ProductID]
			if !ok {
				u.log.WithFields(logrus.Fields{
					"product_id": ci.ProductID,
					"user_id":    userID,
				}).Error("checkout_product_missing")
				return &ProductMissingError{ProductID: ci.ProductID}
			}

			if p.Stock < ci.Quantity {
				u.log.WithFields(logrus.Fields{
					"product_id": p.ID,
					"available":  p.Stock,
					"requested":  ci.Quantity,
					"user_id":    userID,
				}).Warn("checkout_out_of_stock")
				return &OutOfStockError{ProductID: p.ID, Requested: ci.Quantity, Available: p.Stock}
			}

			//減算。WHERE stock >= qty はロック中でも外さない
			decreased, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, ci.Quantity)
			if err != nil {
				return err
			}
			if !decreased {
				return &OutOfStockError{ProductID: p.ID, Requested: ci.Quantity, Available: p.Stock}
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Price:       p.Price,
				Quantity:    ci.Quantity,
			})

			total = total.Add(p.Price.Mul(decimal.NewFromInt(ci.Quantity)))
		}

		// 5) 注文作成。合計はここで確定してもう変えない
		now := time.Now()
		order := model.Order{
			UserID:          userID,
			IdempotencyKey:  key,
			Status:          model.OrderStatusPending,
			TotalPrice:      total,
			Currency:        "USD",
			IsFinalized:     true,
			CustomerEmail:   in.CustomerEmail,
			PhoneNumber:     strings.TrimSpace(in.PhoneNumber),
			DeliveryMethod:  method,
			DeliveryAddress: in.DeliveryAddress,
			DeliveryTime:    in.DeliveryTime,
			ShippingAddress: in.ShippingAddress,
			StoreAddress:    in.StoreAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			//ロックの外から同じキーが先に入った稀な競合。
			//unique制約に弾かれたら再検索して既存を返す（事前チェックと制約の両方が必要）
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				u.log.WithFields(logrus.Fields{
					"order_id":        ex2.ID,
					"user_id":         userID,
					"idempotency_key": key,
				}).Info("checkout_idempotent_race_resolved")

				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return err3
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return err
		}
		order.ID = orderID

		// 6) 明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}

		// 7) カートをCHECKED_OUTにして明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return err
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}

		u.log.WithFields(logrus.Fields{
			"order_id":    orderID,
			"user_id":     userID,
			"total_price": total.String(),
			"items_count": len(orderItems),
		}).Info("checkout_created")

		out = toOrderOutput(order, orderItems)
		wasCreated = true
		return nil
	})

	if err != nil {
		u.log.WithFields(logrus.Fields{
			"user_id":         userID,
			"idempotency_key": key,
		}).WithError(err).Error("checkout_failed")
		return OrderOutput{}, false, err
	}
	return out, wasCreated, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return err
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		history, err := r.StatusHistory().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		out.History = toHistoryOutputs(history)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		Currency:   o.Currency,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}
}

func toHistoryOutputs(rows []model.OrderStatusHistory) []StatusHistoryOutput {
	outs := make([]StatusHistoryOutput, 0, len(rows))
	for _, h := range rows {
		outs = append(outs, StatusHistoryOutput{
			FromStatus: string(h.FromStatus),
			ToStatus:   string(h.ToStatus),
			ChangedBy:  h.ChangedByUserID,
			Comment:    h.Comment,
			CreatedAt:  h.CreatedAt,
		})
	}
	return outs
}
