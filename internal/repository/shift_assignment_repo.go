package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
)

// ShiftAssignmentRepository 日排班记录数据访问接口
// 换班引擎只读取和改写 label，不新增也不删除记录
type ShiftAssignmentRepository interface {
	GetByID(ctx context.Context, id string) (*model.ShiftAssignment, error)
	// GetByEmployeeAndDate 记录不存在时返回 gorm.ErrRecordNotFound
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.ShiftAssignment, error)
	// UpdateLabel 改写单条记录的班次标签，未命中返回 gorm.ErrRecordNotFound
	UpdateLabel(ctx context.Context, id, label string) error
}

type shiftAssignmentRepo struct {
	db *gorm.DB
}

// NewShiftAssignmentRepo 创建 ShiftAssignmentRepository 实例
func NewShiftAssignmentRepo(db *gorm.DB) ShiftAssignmentRepository {
	return &shiftAssignmentRepo{db: db}
}

func (r *shiftAssignmentRepo) GetByID(ctx context.Context, id string) (*model.ShiftAssignment, error) {
	var sa model.ShiftAssignment
	err := r.db.WithContext(ctx).
		Where("shift_assignment_id = ?", id).
		First(&sa).Error
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *shiftAssignmentRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.ShiftAssignment, error) {
	var sa model.ShiftAssignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND shift_date = ?", employeeID, date).
		First(&sa).Error
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *shiftAssignmentRepo) UpdateLabel(ctx context.Context, id, label string) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShiftAssignment{}).
		Where("shift_assignment_id = ?", id).
		Updates(map[string]interface{}{
			"label":      label,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
