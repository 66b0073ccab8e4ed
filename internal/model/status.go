package model

// RequestStatus 完成请求状态
// awaiting_approval → accepted/rejected,决定后不再迁移
type RequestStatus string

const (
	RequestStatusAwaitingApproval RequestStatus = "awaiting_approval"
	RequestStatusAccepted         RequestStatus = "accepted"
	RequestStatusRejected         RequestStatus = "rejected"
)

// Terminal 判断请求是否处于终态
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// LifecycleStatus 任务生命周期状态,由管理端维护
// inactive 的任务不接受新的完成请求
type LifecycleStatus string

const (
	LifecycleActive    LifecycleStatus = "active"
	LifecycleInactive  LifecycleStatus = "inactive"
	LifecycleCompleted LifecycleStatus = "completed"
)

// TaskCompanyStatus 任务在某公司视角下的展示状态
// 不落库,每次从任务与最近请求推导
type TaskCompanyStatus string

const (
	StatusPending          TaskCompanyStatus = "pending"
	StatusAwaitingApproval TaskCompanyStatus = "awaiting_approval"
	StatusCompleted        TaskCompanyStatus = "completed"
	StatusOverdue          TaskCompanyStatus = "overdue"
)

// AllTaskCompanyStatuses 全部展示状态,用于统计输出补零
var AllTaskCompanyStatuses = []TaskCompanyStatus{
	StatusPending,
	StatusAwaitingApproval,
	StatusCompleted,
	StatusOverdue,
}
