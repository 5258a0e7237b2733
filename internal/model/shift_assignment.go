package model

import (
	"time"

	"gorm.io/gorm"
)

// ShiftAssignment 日排班记录 — 对应 shift_assignments
// (employee_id, shift_date) 唯一；Label 为班次标签，如 AM / PM / OFF
type ShiftAssignment struct {
	ShiftAssignmentID string    `gorm:"type:uuid;primaryKey"                                             json:"shift_assignment_id"`
	EmployeeID        string    `gorm:"type:uuid;not null;uniqueIndex:uk_shift_assignments_employee_date" json:"employee_id"`
	ShiftDate         time.Time `gorm:"type:date;not null;uniqueIndex:uk_shift_assignments_employee_date" json:"shift_date"`
	Label             string    `gorm:"type:varchar(50);not null"                                        json:"label"`
	BaseModel
}

// TableName 指定表名
func (ShiftAssignment) TableName() string { return "shift_assignments" }

// BeforeCreate 生成主键
func (s *ShiftAssignment) BeforeCreate(_ *gorm.DB) error {
	newID(&s.ShiftAssignmentID)
	return nil
}
