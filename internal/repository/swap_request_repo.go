package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
	pkgerrors "wfm/backend/pkg/errors"
)

// SwapStatusUpdate 条件状态更新参数
// 两个审批时间戳总是整体写入，nil 即清空
type SwapStatusUpdate struct {
	ID             string
	ExpectedStatus string
	NewStatus      string
	TLApprovedAt   *time.Time
	WFMApprovedAt  *time.Time
	UpdatedBy      string
}

// SwapRequestRepository 换班申请数据访问接口
type SwapRequestRepository interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	// UpdateStatus 仅当库中状态等于 ExpectedStatus 时更新
	// 未命中返回 *pkgerrors.ConflictError，且不做其他写入
	UpdateStatus(ctx context.Context, upd *SwapStatusUpdate) error
}

type swapRequestRepo struct {
	db *gorm.DB
}

// NewSwapRequestRepo 创建 SwapRequestRepository 实例
func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, req *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.db.WithContext(ctx).
		Where("swap_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepo) UpdateStatus(ctx context.Context, upd *SwapStatusUpdate) error {
	var updatedBy *string
	if upd.UpdatedBy != "" {
		updatedBy = &upd.UpdatedBy
	}
	result := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("swap_request_id = ? AND status = ?", upd.ID, upd.ExpectedStatus).
		Updates(map[string]interface{}{
			"status":          upd.NewStatus,
			"tl_approved_at":  upd.TLApprovedAt,
			"wfm_approved_at": upd.WFMApprovedAt,
			"updated_by":      updatedBy,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 读回实际状态用于诊断
		actual := ""
		var current model.SwapRequest
		err := r.db.WithContext(ctx).
			Select("status").
			Where("swap_request_id = ?", upd.ID).
			First(&current).Error
		if err == nil {
			actual = current.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return pkgerrors.NewConflictError("SwapRequest", upd.ID, upd.ExpectedStatus, actual)
	}
	return nil
}
