package model

import (
	"errors"
	"time"
)

// TaskAssignmentModel 任务指派数据模型
// 每行表示一个公司对一个任务负责;同一 (task_id, company_id) 只允许一行
// 指派集合由外部管理端维护,引擎只读
type TaskAssignmentModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TaskID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_task_company" json:"task_id"`
	CompanyID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_task_company;index" json:"company_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName 指定表名
func (TaskAssignmentModel) TableName() string {
	return "task_assignments"
}

// Validate 验证指派模型
func (am *TaskAssignmentModel) Validate() error {
	if am.ID == "" {
		return errors.New("assignment ID is required")
	}
	if am.TaskID == "" {
		return errors.New("task ID is required")
	}
	if am.CompanyID == "" {
		return errors.New("company ID is required")
	}
	return nil
}
