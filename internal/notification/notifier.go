package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"emarket/internal/domain/model"

	"github.com/sirupsen/logrus"
)

// 発送メールの送り先。commitの後にだけ呼ばれる（失敗しても注文は巻き戻らない）
type Notifier interface {
	SendOrderShipped(ctx context.Context, order model.Order) error
}

// dev用。実際には送らずログに書くだけ
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendOrderShipped(ctx context.Context, order model.Order) error {
	n.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"email":    order.CustomerEmail,
	}).Info("order_shipped_email")
	return nil
}

// SMTP経由でプレーンテキストを送る
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPNotifier(addr string, from string, auth smtp.Auth) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from, auth: auth}
}

func (n *SMTPNotifier) SendOrderShipped(ctx context.Context, order model.Order) error {
	if order.CustomerEmail == "" {
		return fmt.Errorf("order %d has no customer email", order.ID)
	}

	subject := fmt.Sprintf("Your order #%d has been shipped", order.ID)
	body := fmt.Sprintf(
		"Order #%d is on its way.\nTotal: %s %s\n",
		order.ID, order.TotalPrice.StringFixed(2), order.Currency,
	)
	msg := []byte(
		"To: " + order.CustomerEmail + "\r\n" +
			"From: " + n.from + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"\r\n" +
			body,
	)

	return smtp.SendMail(n.addr, n.auth, n.from, []string{order.CustomerEmail}, msg)
}
