package model

import "errors"

// remember to add new statuses to the transitions map
var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusConfirmed: {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}
	return "", errors.New("invalid order status")
}

// どのステータスからどこへ進めるか。データで持つ（ステートごとの型は作らない）
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// OrderStatusFlowは状態を持たないのでそのまま並行に呼べる
type OrderStatusFlow struct{}

func (OrderStatusFlow) CanChange(from OrderStatus, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (OrderStatusFlow) NextAllowed(from OrderStatus) []OrderStatus {
	return allowedTransitions[from]
}

// 進み先が無いステータス（completed / cancelled）
func (f OrderStatusFlow) IsTerminal(s OrderStatus) bool {
	return len(allowedTransitions[s]) == 0
}
