package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/repository"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedProjectTask 创建项目任务,可选归属子项目
func seedProjectTask(t *testing.T, db *gorm.DB, taskID, projectID string, subProjectID *string, dueDate *time.Time, companyIDs ...string) {
	now := time.Now()
	task := &model.TaskModel{
		ID:              taskID,
		ProjectID:       projectID,
		SubProjectID:    subProjectID,
		Name:            "Task " + taskID,
		LifecycleStatus: model.LifecycleActive,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, companyID := range companyIDs {
		task.Assignments = append(task.Assignments, model.TaskAssignmentModel{
			ID:        uuid.NewString(),
			TaskID:    taskID,
			CompanyID: companyID,
			CreatedAt: now,
		})
	}
	require.NoError(t, db.Create(task).Error)
}

// newProgress 构造进度服务
func newProgress(db *gorm.DB) service.ProgressService {
	return service.NewProgressService(
		repository.NewTaskRepository(db),
		repository.NewCompletionRequestRepository(db),
	)
}

// submitAndAccept 提交并通过一条完成请求
func submitAndAccept(t *testing.T, ledger service.LedgerService, taskID, companyID string) {
	created, err := ledger.Submit(context.Background(), submitReq(taskID, companyID))
	require.NoError(t, err)
	_, err = ledger.Decide(context.Background(), created.ID, &service.DecideRequest{Decision: "accept", DecidedBy: "admin-001"})
	require.NoError(t, err)
}

// TestProgressService_Aggregate_Empty 测试零任务范围
func TestProgressService_Aggregate_Empty(t *testing.T) {
	db := setupTestDB(t)
	progress := newProgress(db)

	snapshot, err := progress.Aggregate(context.Background(), "firm-001", "proj-001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.TotalTasks)
	assert.Equal(t, 0, snapshot.CompletedTasks)
	// 零除保护:空范围百分比为 0 而非错误
	assert.Equal(t, 0, snapshot.CompletionPercentage)
	// 状态计数补零,四个键齐全
	assert.Len(t, snapshot.StatusCounts, 4)
	for _, st := range model.AllTaskCompanyStatuses {
		assert.Equal(t, 0, snapshot.StatusCounts[st])
	}
}

// TestProgressService_Aggregate 测试进度汇总与四舍五入
func TestProgressService_Aggregate(t *testing.T) {
	db := setupTestDB(t)
	subA := "sub-001"
	subB := "sub-002"
	pastDue := dateAt(2026, time.February, 1)
	seedProjectTask(t, db, "task-001", "proj-001", &subA, nil, "firm-001")
	seedProjectTask(t, db, "task-002", "proj-001", &subA, &pastDue, "firm-001")
	seedProjectTask(t, db, "task-003", "proj-001", &subB, nil, "firm-001")
	// 其他项目的任务不计入
	seedProjectTask(t, db, "task-999", "proj-002", nil, nil, "firm-001")

	ledger := newLedger(db)
	progress := newProgress(db)
	submitAndAccept(t, ledger, "task-001", "firm-001")

	today := dateAt(2026, time.March, 15)
	snapshot, err := progress.Aggregate(context.Background(), "firm-001", "proj-001", today)
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.TotalTasks)
	assert.Equal(t, 1, snapshot.CompletedTasks)
	// round(1/3*100) = 33
	assert.Equal(t, 33, snapshot.CompletionPercentage)
	assert.Equal(t, 1, snapshot.StatusCounts[model.StatusCompleted])
	assert.Equal(t, 1, snapshot.StatusCounts[model.StatusOverdue])
	assert.Equal(t, 1, snapshot.StatusCounts[model.StatusPending])
	assert.Equal(t, 0, snapshot.StatusCounts[model.StatusAwaitingApproval])
	assert.Equal(t, 2, snapshot.DistinctSubProjectsTouched)
}

// TestProgressService_Aggregate_Rounding 测试 2/3 进位
func TestProgressService_Aggregate_Rounding(t *testing.T) {
	db := setupTestDB(t)
	seedProjectTask(t, db, "task-001", "proj-001", nil, nil, "firm-001")
	seedProjectTask(t, db, "task-002", "proj-001", nil, nil, "firm-001")
	seedProjectTask(t, db, "task-003", "proj-001", nil, nil, "firm-001")

	ledger := newLedger(db)
	progress := newProgress(db)
	submitAndAccept(t, ledger, "task-001", "firm-001")
	submitAndAccept(t, ledger, "task-002", "firm-001")

	snapshot, err := progress.Aggregate(context.Background(), "firm-001", "proj-001", time.Now())
	require.NoError(t, err)
	// round(2/3*100) = 67
	assert.Equal(t, 67, snapshot.CompletionPercentage)
}

// TestProgressService_Aggregate_RejectedInvisible 测试驳回请求不计入进度
func TestProgressService_Aggregate_RejectedInvisible(t *testing.T) {
	db := setupTestDB(t)
	seedProjectTask(t, db, "task-001", "proj-001", nil, nil, "firm-001")
	ledger := newLedger(db)
	progress := newProgress(db)

	created, err := ledger.Submit(context.Background(), submitReq("task-001", "firm-001"))
	require.NoError(t, err)
	_, err = ledger.Decide(context.Background(), created.ID, &service.DecideRequest{Decision: "reject", DecidedBy: "admin-001"})
	require.NoError(t, err)

	snapshot, err := progress.Aggregate(context.Background(), "firm-001", "proj-001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.CompletedTasks)
	assert.Equal(t, 1, snapshot.StatusCounts[model.StatusPending])
}

// TestProgressService_ProjectRollup 测试跨公司汇总
func TestProgressService_ProjectRollup(t *testing.T) {
	db := setupTestDB(t)
	pastDue := dateAt(2026, time.February, 1)
	seedProjectTask(t, db, "task-001", "proj-001", nil, nil, "firm-001", "firm-002")
	seedProjectTask(t, db, "task-002", "proj-001", nil, &pastDue, "firm-001")

	ledger := newLedger(db)
	progress := newProgress(db)
	submitAndAccept(t, ledger, "task-001", "firm-001")

	today := dateAt(2026, time.March, 15)
	rollup, err := progress.ProjectRollup(context.Background(), "proj-001", nil, today)
	require.NoError(t, err)

	// companyIDs 为空取项目内全部出现过指派的公司
	require.Len(t, rollup.Companies, 2)
	byCompany := make(map[string]*service.ProgressSnapshot)
	for _, snapshot := range rollup.Companies {
		byCompany[snapshot.CompanyID] = snapshot
	}

	firm1 := byCompany["firm-001"]
	require.NotNil(t, firm1)
	assert.Equal(t, 2, firm1.TotalTasks)
	assert.Equal(t, 1, firm1.CompletedTasks)
	assert.Equal(t, 50, firm1.CompletionPercentage)

	// 同一任务在不同公司下独立推导:firm-002 尚未提交
	firm2 := byCompany["firm-002"]
	require.NotNil(t, firm2)
	assert.Equal(t, 1, firm2.TotalTasks)
	assert.Equal(t, 0, firm2.CompletedTasks)
	assert.Equal(t, 1, firm2.StatusCounts[model.StatusPending])

	// 汇总分布等于逐公司计数之和
	assert.Equal(t, 1, rollup.Distribution[model.StatusCompleted])
	assert.Equal(t, 1, rollup.Distribution[model.StatusOverdue])
	assert.Equal(t, 1, rollup.Distribution[model.StatusPending])
	assert.Equal(t, 0, rollup.Distribution[model.StatusAwaitingApproval])
}

// TestProgressService_Resolve 测试单任务状态查询
func TestProgressService_Resolve(t *testing.T) {
	db := setupTestDB(t)
	seedProjectTask(t, db, "task-001", "proj-001", nil, nil, "firm-001")
	progress := newProgress(db)

	_, err := progress.Resolve(context.Background(), "task-001", "firm-999", time.Now())
	var notAssignedErr *service.NotAssignedError
	assert.ErrorAs(t, err, &notAssignedErr)

	_, err = progress.Resolve(context.Background(), "task-999", "firm-001", time.Now())
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

// TestProgressService_EndToEnd 测试提交-审批-进度全链路
func TestProgressService_EndToEnd(t *testing.T) {
	db := setupTestDB(t)
	seedProjectTask(t, db, "task-001", "proj-001", nil, nil, "firm-001")
	ledger := newLedger(db)
	progress := newProgress(db)
	ctx := context.Background()

	status, err := progress.Resolve(ctx, "task-001", "firm-001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)

	created, err := ledger.Submit(ctx, submitReq("task-001", "firm-001"))
	require.NoError(t, err)

	status, err = progress.Resolve(ctx, "task-001", "firm-001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusAwaitingApproval, status)

	_, err = ledger.Decide(ctx, created.ID, &service.DecideRequest{Decision: "accept", DecidedBy: "admin-001"})
	require.NoError(t, err)

	status, err = progress.Resolve(ctx, "task-001", "firm-001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, status)

	snapshot, err := progress.Aggregate(ctx, "firm-001", "proj-001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.CompletedTasks)
	assert.Equal(t, 100, snapshot.CompletionPercentage)
}
