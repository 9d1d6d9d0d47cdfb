package usecase

import (
	"context"
	"net/http"
	"time"

	"emarket/internal/domain/model"
	"emarket/internal/notification"
	repo "emarket/internal/repository"

	"github.com/sirupsen/logrus"
)

type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	flow     model.OrderStatusFlow
	notifier notification.Notifier
	log      *logrus.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, notifier notification.Notifier, log *logrus.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, flow: model.OrderStatusFlow{}, notifier: notifier, log: log}
}

type AdminUpdateOrderStatusInput struct {
	Status  string
	Comment string
}

// 注文一覧（管理者）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// UpdateStatusは注文を次のステータスへ進める。
// 2つ目の戻り値は「実際に変わったか」（同じステータスへの再送はfalseで履歴も書かない）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, bool, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, false, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, false, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus, err := model.ToOrderStatus(in.Status)
	if err != nil {
		return OrderOutput{}, false, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var updated model.Order
	var fromStatus model.OrderStatus
	changed := false

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 対象の注文をロックしてから現在値を読む
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return err
		}
		fromStatus = o.Status

		// すでに同じなら何もしない（履歴も増やさない）
		if o.Status == newStatus {
			updated = o
			return nil
		}

		if !u.flow.CanChange(o.Status, newStatus) {
			return &InvalidTransitionError{From: o.Status, To: newStatus}
		}

		// 未発送のキャンセルは在庫を戻す
		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		// ステータス更新
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return err
		}

		// 履歴（from/to/誰が/コメント）
		if err := r.StatusHistory().Create(ctx, model.OrderStatusHistory{
			OrderID:         orderID,
			FromStatus:      o.Status,
			ToStatus:        newStatus,
			ChangedByUserID: &actorAdminUserID,
			Comment:         in.Comment,
			CreatedAt:       time.Now(),
		}); err != nil {
			return err
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		o.Status = newStatus
		updated = o
		changed = true
		return nil
	})

	if err != nil {
		u.log.WithFields(logrus.Fields{
			"order_id":   orderID,
			"from":       string(fromStatus),
			"to":         string(newStatus),
			"changed_by": actorAdminUserID,
		}).WithError(err).Error("order_status_change_failed")
		return OrderOutput{}, false, err
	}

	if !changed {
		return toOrderOutput(updated, nil), false, nil
	}

	// 通知はcommitの後。ロックを握ったまま外部を呼ばない。
	// 失敗してもステータス変更は確定済みなので握りつぶしてログだけ残す
	if newStatus == model.OrderStatusShipped {
		if err := u.notifier.SendOrderShipped(ctx, updated); err != nil {
			u.log.WithField("order_id", orderID).WithError(err).Error("failed_to_send_order_shipped_email")
		}
	}

	u.log.WithFields(logrus.Fields{
		"order_id":   orderID,
		"from":       string(fromStatus),
		"to":         string(newStatus),
		"changed_by": actorAdminUserID,
	}).Info("order_status_changed")

	return toOrderOutput(updated, nil), true, nil
}
