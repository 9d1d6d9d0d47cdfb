package repository

import (
	"context"

	"emarket/internal/domain/model"
)

// 管理者操作の記録だけを約束
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
}
