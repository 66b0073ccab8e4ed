package service

import (
	"time"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
)

// ResolveTaskStatus 推导任务在某公司视角下的展示状态
// 分支按优先级互斥,顺序不可调整:
//  1. 最近请求已通过 → Completed
//  2. 最近请求待审批 → AwaitingApproval
//  3. 其余情况(无请求或最近被驳回):截止日期早于今天 → Overdue,否则 Pending
//
// 已通过或待审批的请求始终代表最新意图,迟交但获批的任务不得报告为逾期;
// 被驳回的请求不提供逾期豁免,公司需要重新提交
func ResolveTaskStatus(task *model.TaskModel, latest *model.CompletionRequestModel, today time.Time) model.TaskCompanyStatus {
	if latest != nil {
		switch latest.Status {
		case model.RequestStatusAccepted:
			return model.StatusCompleted
		case model.RequestStatusAwaitingApproval:
			return model.StatusAwaitingApproval
		}
	}

	if task.DueDate != nil && dateBefore(*task.DueDate, today) {
		return model.StatusOverdue
	}
	return model.StatusPending
}

// dateBefore 仅按日历日比较,忽略时分秒
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
