package model

import (
	"errors"
	"time"
)

// TaskModel 任务数据模型
// 任务隶属于项目,可选地隶属于该项目下的一个子项目
type TaskModel struct {
	ID                 string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ProjectID          string          `gorm:"type:varchar(64);not null;index" json:"project_id"`
	SubProjectID       *string         `gorm:"type:varchar(64);index" json:"sub_project_id"` // 子项目 ID,可为空
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	Description        string          `gorm:"type:text" json:"description"`
	ContributionWeight int             `gorm:"type:int;not null;default:0" json:"contribution_weight"` // 报表加权百分比,不强制合计为 100
	OrderNo            int             `gorm:"type:int;not null;default:0" json:"order_no"`            // 展示排序,无业务语义
	DueDate            *time.Time      `gorm:"index" json:"due_date"`                                  // 无截止日期的任务永远不会逾期
	LifecycleStatus    LifecycleStatus `gorm:"type:varchar(32);not null;index" json:"lifecycle_status"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`

	// 指派给任务的公司集合,引擎侧只读
	Assignments []TaskAssignmentModel `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.ID == "" {
		return errors.New("task ID is required")
	}
	if tm.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if tm.Name == "" {
		return errors.New("task name is required")
	}
	if tm.LifecycleStatus == "" {
		return errors.New("lifecycle status is required")
	}
	return nil
}

// IsAssignedTo 判断公司是否在任务的指派集合中
func (tm *TaskModel) IsAssignedTo(companyID string) bool {
	for _, a := range tm.Assignments {
		if a.CompanyID == companyID {
			return true
		}
	}
	return false
}
