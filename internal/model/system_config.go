package model

// SystemConfig 系统配置表 — 对应 system_config（单行强类型）
type SystemConfig struct {
	Singleton         bool `gorm:"primaryKey;default:true"  json:"-"`
	AutoApproveSwaps  bool `gorm:"not null;default:false"   json:"auto_approve_swaps"`
	SwapDeadlineHours int  `gorm:"not null;default:24"      json:"swap_deadline_hours"`
	BaseModel
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }
