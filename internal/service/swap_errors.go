package service

import (
	"errors"
	"fmt"
)

// ── 换班模块业务错误 ──

var (
	ErrInvalidTransition   = errors.New("当前状态或角色不允许该操作")
	ErrResourceNotFound    = errors.New("资源不存在")
	ErrExchangeFailed      = errors.New("排班交换执行失败")
	ErrSwapSelf            = errors.New("不能与自己换班")
	ErrShiftOwnerMismatch  = errors.New("班次不属于指定员工")
	ErrSwapAlreadyInFlight = errors.New("相同日期的换班申请正在审批中")
	ErrSwapDeadlinePassed  = errors.New("已超过换班申请截止时间")
	ErrAutoApproveUnknown  = errors.New("无法读取自动审批配置")
)

// InvalidTransitionError 角色或状态前置条件不满足
// 不可重试，原样返回给调用方
type InvalidTransitionError struct {
	Action string
	Role   string
	Status string
	Reason string
	// ActorDenied 为 true 表示调用者身份不符（而非状态不符）
	ActorDenied bool
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("不允许的换班操作 %s（角色 %s，状态 %s）: %s", e.Action, e.Role, e.Status, e.Reason)
}

// Is 使 errors.Is(err, ErrInvalidTransition) 成立
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ResourceNotFoundError 换班申请或引用的班次不存在
type ResourceNotFoundError struct {
	ResourceType string
	ID           string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s 不存在", e.ResourceType, e.ID)
}

// Is 使 errors.Is(err, ErrResourceNotFound) 成立
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// 交换阶段
const (
	ExchangePhaseExecute = "execute"
	ExchangePhaseReverse = "reverse"
)

// ExchangeFailureError 排班记录写入失败
// 整个流转已回滚，需要运维介入排查，不应由用户直接重试
type ExchangeFailureError struct {
	RequestID string
	Phase     string
	Err       error
}

func (e *ExchangeFailureError) Error() string {
	return fmt.Sprintf("换班 %s 排班交换失败（%s）: %v", e.RequestID, e.Phase, e.Err)
}

func (e *ExchangeFailureError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrExchangeFailed) 成立
func (e *ExchangeFailureError) Is(target error) bool {
	return target == ErrExchangeFailed
}
