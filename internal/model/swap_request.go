package model

import (
	"time"

	"gorm.io/gorm"
)

// ── 换班状态 ──

const (
	SwapStatusPendingAcceptance = "pending_acceptance" // 待对方确认
	SwapStatusPendingTL         = "pending_tl"         // 待组长审批
	SwapStatusPendingWFM        = "pending_wfm"        // 待排班管理员审批
	SwapStatusApproved          = "approved"
	SwapStatusRejected          = "rejected"
)

// ── 换班动作 ──

const (
	SwapActionAccept     = "accept"
	SwapActionDecline    = "decline"
	SwapActionTLApprove  = "tl_approve"
	SwapActionTLReject   = "tl_reject"
	SwapActionWFMApprove = "wfm_approve"
	SwapActionWFMReject  = "wfm_reject"
	SwapActionCancel     = "cancel"
	SwapActionRevoke     = "revoke"

	// SwapActionCreate 仅用于审计日志
	SwapActionCreate = "create"
)

// SwapStatuses 全部合法状态
var SwapStatuses = []string{
	SwapStatusPendingAcceptance,
	SwapStatusPendingTL,
	SwapStatusPendingWFM,
	SwapStatusApproved,
	SwapStatusRejected,
}

// SwapActions 全部可由调用方发起的动作
var SwapActions = []string{
	SwapActionAccept,
	SwapActionDecline,
	SwapActionTLApprove,
	SwapActionTLReject,
	SwapActionWFMApprove,
	SwapActionWFMReject,
	SwapActionCancel,
	SwapActionRevoke,
}

// IsInFlight 是否仍处于审批流程中
func IsInFlight(status string) bool {
	return status != SwapStatusApproved && status != SwapStatusRejected
}

// SwapRequest 换班申请表 — 对应 swap_requests
// 创建后只通过状态流转修改，永不删除
type SwapRequest struct {
	SwapRequestID    string     `gorm:"type:uuid;primaryKey"                                     json:"swap_request_id"`
	RequesterID      string     `gorm:"type:uuid;not null"                                       json:"requester_id"`
	TargetUserID     string     `gorm:"type:uuid;not null"                                       json:"target_user_id"`
	RequesterShiftID string     `gorm:"type:uuid;not null"                                       json:"requester_shift_id"`
	TargetShiftID    string     `gorm:"type:uuid;not null"                                       json:"target_shift_id"`
	RequesterDate    time.Time  `gorm:"type:date;not null"                                       json:"requester_date"`
	TargetDate       time.Time  `gorm:"type:date;not null"                                       json:"target_date"`
	Reason           string     `gorm:"type:varchar(500);not null;default:''"                    json:"reason,omitempty"`
	Status           string     `gorm:"type:varchar(30);not null;default:'pending_acceptance'"   json:"status"`
	TLApprovedAt     *time.Time `json:"tl_approved_at,omitempty"`
	WFMApprovedAt    *time.Time `json:"wfm_approved_at,omitempty"`

	// 创建时采集的四个原始班次，撤销时据此还原；nil 表示当日无记录
	RequesterOriginalOnRequesterDate *string `gorm:"type:varchar(50)" json:"requester_original_on_requester_date,omitempty"`
	TargetOriginalOnRequesterDate    *string `gorm:"type:varchar(50)" json:"target_original_on_requester_date,omitempty"`
	RequesterOriginalOnTargetDate    *string `gorm:"type:varchar(50)" json:"requester_original_on_target_date,omitempty"`
	TargetOriginalOnTargetDate       *string `gorm:"type:varchar(50)" json:"target_original_on_target_date,omitempty"`

	BaseModel
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// BeforeCreate 生成主键
func (r *SwapRequest) BeforeCreate(_ *gorm.DB) error {
	newID(&r.SwapRequestID)
	return nil
}
