package handler

import "wfm/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Swap         *SwapHandler
	SystemConfig *SystemConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Swap:         NewSwapHandler(svc.Swap),
		SystemConfig: NewSystemConfigHandler(svc.SystemConfig),
	}
}
