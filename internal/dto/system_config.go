package dto

// ── 系统配置模块 DTO ──

// UpdateSystemConfigRequest 更新系统配置请求
type UpdateSystemConfigRequest struct {
	AutoApproveSwaps  *bool `json:"auto_approve_swaps"`
	SwapDeadlineHours *int  `json:"swap_deadline_hours" binding:"omitempty,min=0,max=168"`
}

// SystemConfigResponse 系统配置响应
type SystemConfigResponse struct {
	AutoApproveSwaps  bool   `json:"auto_approve_swaps"`
	SwapDeadlineHours int    `json:"swap_deadline_hours"`
	UpdatedAt         string `json:"updated_at"`
}
