package handler

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"wfm/backend/internal/model"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators 向 Gin 默认校验器注册换班枚举校验标签
//
//	swap_action: accept | decline | tl_approve | tl_reject | wfm_approve | wfm_reject | cancel | revoke
//	swap_status: pending_acceptance | pending_tl | pending_wfm | approved | rejected
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("binding 校验引擎类型异常: %T", binding.Validator.Engine())
			return
		}
		if registerErr = v.RegisterValidation("swap_action", oneOf(model.SwapActions)); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("swap_status", oneOf(model.SwapStatuses))
	})
	return registerErr
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}
