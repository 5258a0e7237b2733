package dto

// ── 换班模块 DTO ──

// CreateSwapRequest 发起换班请求（申请人为当前登录用户）
type CreateSwapRequest struct {
	TargetUserID     string `json:"target_user_id"     binding:"required,uuid"`
	RequesterShiftID string `json:"requester_shift_id" binding:"required,uuid"`
	TargetShiftID    string `json:"target_shift_id"    binding:"required,uuid"`
	Reason           string `json:"reason"             binding:"omitempty,max=500"`
}

// SwapTransitionRequest 状态流转请求体
// ExpectedStatus 为客户端最后看到的状态，留空则以库中当前状态为准
type SwapTransitionRequest struct {
	Action         string `json:"action"          binding:"required,swap_action"`
	ExpectedStatus string `json:"expected_status" binding:"omitempty,swap_status"`
	Comment        string `json:"comment"         binding:"omitempty,max=500"`
}

// TransitionInput 状态流转的服务层入参
type TransitionInput struct {
	RequestID      string
	ActorID        string
	ActorRole      string
	Action         string
	ExpectedStatus string
	Comment        string
}

// SwapAuditLogListRequest 审计日志列表查询参数
type SwapAuditLogListRequest struct {
	PaginationRequest
}

// ── 响应 ──

// SwapRequestResponse 换班申请响应
type SwapRequestResponse struct {
	ID               string          `json:"id"`
	RequesterID      string          `json:"requester_id"`
	TargetUserID     string          `json:"target_user_id"`
	RequesterShiftID string          `json:"requester_shift_id"`
	TargetShiftID    string          `json:"target_shift_id"`
	RequesterDate    string          `json:"requester_date"`
	TargetDate       string          `json:"target_date"`
	Reason           string          `json:"reason,omitempty"`
	Status           string          `json:"status"`
	TLApprovedAt     *string         `json:"tl_approved_at"`
	WFMApprovedAt    *string         `json:"wfm_approved_at"`
	Originals        SwapOriginalSet `json:"originals"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// SwapOriginalSet 创建时采集的四个原始班次
type SwapOriginalSet struct {
	RequesterOnRequesterDate *string `json:"requester_on_requester_date"`
	TargetOnRequesterDate    *string `json:"target_on_requester_date"`
	RequesterOnTargetDate    *string `json:"requester_on_target_date"`
	TargetOnTargetDate       *string `json:"target_on_target_date"`
}

// SwapAuditLogResponse 审计日志响应
type SwapAuditLogResponse struct {
	ID         string    `json:"id"`
	Actor      UserBrief `json:"actor"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  string    `json:"created_at"`
}
