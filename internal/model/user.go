package model

import "gorm.io/gorm"

// ── 角色 ──

const (
	RoleMember = "member" // 普通员工
	RoleLeader = "leader" // 组长（TL 审批）
	RoleAdmin  = "admin"  // 排班管理员（WFM 审批）
)

// User 用户表 — 对应 users（由用户中心同步，本服务只读）
type User struct {
	UserID string `gorm:"type:uuid;primaryKey"                       json:"user_id"`
	Name   string `gorm:"type:varchar(100);not null"                 json:"name"`
	Email  string `gorm:"type:varchar(255);not null;default:''"      json:"email"`
	Role   string `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.UserID)
	return nil
}
