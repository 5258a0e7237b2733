package model

import (
	"time"

	"gorm.io/gorm"
)

// SwapAuditLog 换班审计日志 — 对应 swap_audit_logs（只追加）
type SwapAuditLog struct {
	SwapAuditLogID string    `gorm:"type:uuid;primaryKey"                   json:"swap_audit_log_id"`
	SwapRequestID  string    `gorm:"type:uuid;not null;index"               json:"swap_request_id"`
	ActorID        string    `gorm:"type:uuid;not null"                     json:"actor_id"`
	ActorName      string    `gorm:"type:varchar(100);not null;default:''"  json:"actor_name"`
	ActorRole      string    `gorm:"type:varchar(20);not null;default:''"   json:"actor_role"`
	Action         string    `gorm:"type:varchar(30);not null"              json:"action"`
	FromStatus     string    `gorm:"type:varchar(30);not null;default:''"   json:"from_status"`
	ToStatus       string    `gorm:"type:varchar(30);not null"              json:"to_status"`
	Note           string    `gorm:"type:text;not null;default:''"          json:"note,omitempty"`
	Message        string    `gorm:"type:text;not null;default:''"          json:"message"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"     json:"created_at"`
}

// TableName 指定表名
func (SwapAuditLog) TableName() string { return "swap_audit_logs" }

// BeforeCreate 生成主键
func (l *SwapAuditLog) BeforeCreate(_ *gorm.DB) error {
	newID(&l.SwapAuditLogID)
	return nil
}
