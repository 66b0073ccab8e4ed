package repository_test

import (
	"testing"
	"time"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/database"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建测试数据库
// 单连接串行化写入,TranslateError 统一唯一索引冲突错误
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// 迁移数据库
	err = database.Migrate(db)
	require.NoError(t, err)

	return db
}

// newRequest 构造完成请求
func newRequest(id, taskID, companyID string, status model.RequestStatus, submittedAt time.Time) *model.CompletionRequestModel {
	req := &model.CompletionRequestModel{
		ID:          id,
		TaskID:      taskID,
		CompanyID:   companyID,
		Note:        "Tüm belgeler hazırlandı ve sisteme yüklendi",
		EvidenceURL: "https://cdn.example.com/belge.pdf",
		Status:      status,
		SubmittedAt: submittedAt,
	}
	if status != model.RequestStatusRejected {
		active := model.ActiveMarker
		req.Active = &active
	}
	return req
}

// TestRequestRepository_Insert 测试插入请求
func TestRequestRepository_Insert(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	err := repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now()))
	assert.NoError(t, err)

	found, err := repo.FindByID("req-001")
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusAwaitingApproval, found.Status)
	assert.NotNil(t, found.Active)
}

// TestRequestRepository_Insert_DuplicateActive 测试活动请求唯一索引
func TestRequestRepository_Insert_DuplicateActive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	err := repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now()))
	require.NoError(t, err)

	// 同一指派对的第二条活动请求被唯一索引拒绝
	err = repo.Insert(newRequest("req-002", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now()))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// 不同公司不冲突
	err = repo.Insert(newRequest("req-003", "task-001", "firm-002", model.RequestStatusAwaitingApproval, time.Now()))
	assert.NoError(t, err)

	// 不同任务不冲突
	err = repo.Insert(newRequest("req-004", "task-002", "firm-001", model.RequestStatusAwaitingApproval, time.Now()))
	assert.NoError(t, err)
}

// TestRequestRepository_Insert_RejectedRowsAccumulate 测试驳回记录可累积
func TestRequestRepository_Insert_RejectedRowsAccumulate(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	// Active 为 NULL 的驳回行互不冲突
	for i, id := range []string{"req-001", "req-002", "req-003"} {
		err := repo.Insert(newRequest(id, "task-001", "firm-001", model.RequestStatusRejected, time.Now().Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	history, err := repo.History("task-001", "firm-001")
	assert.NoError(t, err)
	assert.Len(t, history, 3)
}

// TestRequestRepository_FindActive 测试查找活动请求
func TestRequestRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	// 无请求时返回 nil
	found, err := repo.FindActive("task-001", "firm-001")
	assert.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusRejected, time.Now().Add(-time.Hour))))
	require.NoError(t, repo.Insert(newRequest("req-002", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now())))

	found, err = repo.FindActive("task-001", "firm-001")
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "req-002", found.ID)
}

// TestRequestRepository_FindLatest 测试按提交时间取最近请求
func TestRequestRepository_FindLatest(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	found, err := repo.FindLatest("task-001", "firm-001")
	assert.NoError(t, err)
	assert.Nil(t, found)

	now := time.Now()
	require.NoError(t, repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusRejected, now.Add(-2*time.Hour))))
	require.NoError(t, repo.Insert(newRequest("req-002", "task-001", "firm-001", model.RequestStatusRejected, now.Add(-time.Hour))))

	found, err = repo.FindLatest("task-001", "firm-001")
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "req-002", found.ID)
}

// TestRequestRepository_DecideCAS 测试原子决定
func TestRequestRepository_DecideCAS(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	require.NoError(t, repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now())))

	rows, err := repo.DecideCAS("req-001", model.RequestStatusAccepted, "admin-001", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// 已决定的请求第二次 CAS 不命中
	rows, err = repo.DecideCAS("req-001", model.RequestStatusRejected, "admin-002", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	found, err := repo.FindByID("req-001")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, found.Status)
	require.NotNil(t, found.DecidedBy)
	assert.Equal(t, "admin-001", *found.DecidedBy)
	assert.NotNil(t, found.DecidedAt)
	// 通过的请求保留活动标记,继续占用唯一索引槽位
	assert.NotNil(t, found.Active)
}

// TestRequestRepository_DecideCAS_RejectClearsActive 测试驳回释放活动标记
func TestRequestRepository_DecideCAS_RejectClearsActive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	require.NoError(t, repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now())))

	rows, err := repo.DecideCAS("req-001", model.RequestStatusRejected, "admin-001", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := repo.FindByID("req-001")
	require.NoError(t, err)
	assert.Nil(t, found.Active)

	// 槽位释放后允许重新提交
	err = repo.Insert(newRequest("req-002", "task-001", "firm-001", model.RequestStatusAwaitingApproval, time.Now()))
	assert.NoError(t, err)
}

// TestRequestRepository_FindLatestForTasks 测试批量查找最近请求
func TestRequestRepository_FindLatestForTasks(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCompletionRequestRepository(db)

	now := time.Now()
	require.NoError(t, repo.Insert(newRequest("req-001", "task-001", "firm-001", model.RequestStatusRejected, now.Add(-2*time.Hour))))
	require.NoError(t, repo.Insert(newRequest("req-002", "task-001", "firm-001", model.RequestStatusAwaitingApproval, now.Add(-time.Hour))))
	require.NoError(t, repo.Insert(newRequest("req-003", "task-002", "firm-001", model.RequestStatusAccepted, now)))
	// 其他公司的请求不串台
	require.NoError(t, repo.Insert(newRequest("req-004", "task-001", "firm-002", model.RequestStatusAccepted, now)))

	latest, err := repo.FindLatestForTasks("firm-001", []string{"task-001", "task-002", "task-003"})
	assert.NoError(t, err)
	assert.Len(t, latest, 2)
	assert.Equal(t, "req-002", latest["task-001"].ID)
	assert.Equal(t, "req-003", latest["task-002"].ID)

	// 空任务集返回空映射
	latest, err = repo.FindLatestForTasks("firm-001", nil)
	assert.NoError(t, err)
	assert.Empty(t, latest)
}
