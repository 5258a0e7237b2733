package repository

import (
	"context"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
)

// SwapAuditLogRepository 换班审计日志数据访问接口（只追加）
type SwapAuditLogRepository interface {
	Create(ctx context.Context, log *model.SwapAuditLog) error
	ListByRequest(ctx context.Context, requestID string, offset, limit int) ([]model.SwapAuditLog, int64, error)
}

type swapAuditLogRepo struct {
	db *gorm.DB
}

// NewSwapAuditLogRepo 创建 SwapAuditLogRepository 实例
func NewSwapAuditLogRepo(db *gorm.DB) SwapAuditLogRepository {
	return &swapAuditLogRepo{db: db}
}

func (r *swapAuditLogRepo) Create(ctx context.Context, log *model.SwapAuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *swapAuditLogRepo) ListByRequest(ctx context.Context, requestID string, offset, limit int) ([]model.SwapAuditLog, int64, error) {
	var logs []model.SwapAuditLog
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.SwapAuditLog{}).
		Where("swap_request_id = ?", requestID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
