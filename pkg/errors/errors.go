package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ConflictError 条件更新未命中时的冲突详情
// Expected 为调用方最后观察到的状态，Actual 为库中实际状态（记录已不存在时为空）
type ConflictError struct {
	ResourceType string
	ResourceID   string
	Expected     string
	Actual       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s 并发冲突: 期望状态 %q，实际状态 %q",
		e.ResourceType, e.ResourceID, e.Expected, e.Actual)
}

// Is 使 errors.Is(err, ErrOptimisticLock) 对 ConflictError 成立
func (e *ConflictError) Is(target error) bool {
	return target == ErrOptimisticLock
}

// NewConflictError 构造冲突错误
func NewConflictError(resourceType, resourceID, expected, actual string) *ConflictError {
	return &ConflictError{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Expected:     expected,
		Actual:       actual,
	}
}
