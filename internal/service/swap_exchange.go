package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ExchangeResult 一次交换或还原的结果
type ExchangeResult struct {
	SwappedDates []string // 实际交换了标签的日期
	Written      int      // 写入的记录数
	Skipped      int      // 因记录缺失或原值为空跳过的槽位
}

// ExchangeEngine 快照采集与两日期排班交换
// 自身不开事务，调用方传入事务内的 ShiftAssignmentRepository
type ExchangeEngine struct {
	logger *zap.Logger
}

// NewExchangeEngine 创建交换引擎
func NewExchangeEngine(logger *zap.Logger) *ExchangeEngine {
	return &ExchangeEngine{logger: logger}
}

// exchangeDates 参与交换的日期，同一天只处理一次
func exchangeDates(req *model.SwapRequest) []time.Time {
	if req.RequesterDate.Equal(req.TargetDate) {
		return []time.Time{req.RequesterDate}
	}
	return []time.Time{req.RequesterDate, req.TargetDate}
}

// lookupShift 记录不存在时返回 nil, nil
func lookupShift(ctx context.Context, shifts repository.ShiftAssignmentRepository, employeeID string, date time.Time) (*model.ShiftAssignment, error) {
	sa, err := shifts.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sa, nil
}

func labelOf(sa *model.ShiftAssignment) *string {
	if sa == nil {
		return nil
	}
	label := sa.Label
	return &label
}

// ────────────────────── Capture ──────────────────────

// Capture 读取双方在两个日期上的班次，写入申请的四个原值字段
// 仅在创建时调用一次，之后不再重算
func (e *ExchangeEngine) Capture(ctx context.Context, shifts repository.ShiftAssignmentRepository, req *model.SwapRequest) error {
	slots := []struct {
		employeeID string
		date       time.Time
		dst        **string
	}{
		{req.RequesterID, req.RequesterDate, &req.RequesterOriginalOnRequesterDate},
		{req.TargetUserID, req.RequesterDate, &req.TargetOriginalOnRequesterDate},
		{req.RequesterID, req.TargetDate, &req.RequesterOriginalOnTargetDate},
		{req.TargetUserID, req.TargetDate, &req.TargetOriginalOnTargetDate},
	}

	for _, slot := range slots {
		sa, err := lookupShift(ctx, shifts, slot.employeeID, slot.date)
		if err != nil {
			return err
		}
		*slot.dst = labelOf(sa)
	}
	return nil
}

// ────────────────────── Execute ──────────────────────

// Execute 在每个日期上独立交换双方的班次标签
// 任一方当日无记录则跳过该日期，不补建记录
func (e *ExchangeEngine) Execute(ctx context.Context, shifts repository.ShiftAssignmentRepository, req *model.SwapRequest) (*ExchangeResult, error) {
	result := &ExchangeResult{}

	for _, d := range exchangeDates(req) {
		mine, err := lookupShift(ctx, shifts, req.RequesterID, d)
		if err != nil {
			return nil, err
		}
		theirs, err := lookupShift(ctx, shifts, req.TargetUserID, d)
		if err != nil {
			return nil, err
		}

		if mine == nil || theirs == nil {
			result.Skipped++
			e.logger.Warn("换班日期缺少排班记录，跳过交换",
				zap.String("swap_request_id", req.SwapRequestID),
				zap.String("date", d.Format(dateLayout)),
				zap.Bool("requester_present", mine != nil),
				zap.Bool("target_present", theirs != nil),
			)
			continue
		}

		if mine.Label != theirs.Label {
			if err := shifts.UpdateLabel(ctx, mine.ShiftAssignmentID, theirs.Label); err != nil {
				return nil, err
			}
			if err := shifts.UpdateLabel(ctx, theirs.ShiftAssignmentID, mine.Label); err != nil {
				return nil, err
			}
			result.Written += 2
		}
		result.SwappedDates = append(result.SwappedDates, d.Format(dateLayout))
	}

	return result, nil
}

// ────────────────────── Reverse ──────────────────────

// Reverse 按创建时的快照还原四个槽位
// 原值为空或记录已不存在的槽位静默跳过
func (e *ExchangeEngine) Reverse(ctx context.Context, shifts repository.ShiftAssignmentRepository, req *model.SwapRequest) (*ExchangeResult, error) {
	type slot struct {
		employeeID string
		date       time.Time
		original   *string
	}
	slots := []slot{
		{req.RequesterID, req.RequesterDate, req.RequesterOriginalOnRequesterDate},
		{req.TargetUserID, req.RequesterDate, req.TargetOriginalOnRequesterDate},
	}
	if !req.RequesterDate.Equal(req.TargetDate) {
		slots = append(slots,
			slot{req.RequesterID, req.TargetDate, req.RequesterOriginalOnTargetDate},
			slot{req.TargetUserID, req.TargetDate, req.TargetOriginalOnTargetDate},
		)
	}

	result := &ExchangeResult{}
	for _, s := range slots {
		if s.original == nil {
			result.Skipped++
			continue
		}
		sa, err := lookupShift(ctx, shifts, s.employeeID, s.date)
		if err != nil {
			return nil, err
		}
		if sa == nil {
			result.Skipped++
			continue
		}
		if sa.Label == *s.original {
			continue
		}
		if err := shifts.UpdateLabel(ctx, sa.ShiftAssignmentID, *s.original); err != nil {
			return nil, err
		}
		result.Written++
	}

	return result, nil
}
