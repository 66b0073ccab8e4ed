package model

import (
	"errors"
	"time"
)

// ActiveMarker 活动行标记值
// 请求处于 awaiting_approval 或 accepted 状态时 Active 列取该值,驳回后置 NULL
// (task_id, company_id, active) 上的唯一索引因此保证每个指派对最多存在一条活动请求,
// 而 NULL 互不冲突,历史驳回记录可以任意累积
const ActiveMarker = "1"

// CompletionRequestModel 完成请求数据模型
// 公司针对某任务提交的"已完成"声明及其证据引用;二进制文件本体不入库
type CompletionRequestModel struct {
	ID           string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TaskID       string        `gorm:"type:varchar(64);not null;uniqueIndex:idx_request_active;index" json:"task_id"`
	CompanyID    string        `gorm:"type:varchar(64);not null;uniqueIndex:idx_request_active;index" json:"company_id"`
	Note         string        `gorm:"type:text;not null" json:"note"`
	EvidenceURL  string        `gorm:"type:varchar(1024)" json:"evidence_url"`  // 证据链接
	EvidenceName string        `gorm:"type:varchar(255)" json:"evidence_name"`  // 证据文件名
	Status       RequestStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Active       *string       `gorm:"type:varchar(1);uniqueIndex:idx_request_active" json:"-"`
	SubmittedAt  time.Time     `gorm:"not null;index" json:"submitted_at"`
	DecidedAt    *time.Time    `json:"decided_at"` // 决定前为 NULL
	DecidedBy    *string       `gorm:"type:varchar(64)" json:"decided_by"`
}

// TableName 指定表名
func (CompletionRequestModel) TableName() string {
	return "completion_requests"
}

// Validate 验证完成请求模型
func (cm *CompletionRequestModel) Validate() error {
	if cm.ID == "" {
		return errors.New("request ID is required")
	}
	if cm.TaskID == "" {
		return errors.New("task ID is required")
	}
	if cm.CompanyID == "" {
		return errors.New("company ID is required")
	}
	if cm.Note == "" {
		return errors.New("note is required")
	}
	if cm.EvidenceURL == "" && cm.EvidenceName == "" {
		return errors.New("evidence reference is required")
	}
	if cm.Status == "" {
		return errors.New("request status is required")
	}
	return nil
}
