package repository

import (
	"errors"
	"time"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"gorm.io/gorm"
)

// CompletionRequestRepository 完成请求仓储接口
type CompletionRequestRepository interface {
	// Insert 插入一条新请求
	// (task_id, company_id, active) 唯一索引把查重与写入合并为一次原子写,
	// 指派对已有活动请求时返回 gorm.ErrDuplicatedKey
	Insert(req *model.CompletionRequestModel) error
	FindByID(id string) (*model.CompletionRequestModel, error)
	// FindActive 查找指派对当前的活动请求(待审批或已通过),不存在时返回 nil
	FindActive(taskID, companyID string) (*model.CompletionRequestModel, error)
	// FindLatest 查找指派对提交时间最近的一条请求,不存在时返回 nil
	FindLatest(taskID, companyID string) (*model.CompletionRequestModel, error)
	// FindLatestForTasks 批量查找某公司在一组任务上各自最近的一条请求
	FindLatestForTasks(companyID string, taskIDs []string) (map[string]*model.CompletionRequestModel, error)
	// FindLatestForProject 批量查找一组任务上所有公司各自最近的一条请求,键为 taskID|companyID
	FindLatestForProject(taskIDs []string) (map[string]*model.CompletionRequestModel, error)
	// DecideCAS 将请求从待审批原子地转移到终态,返回受影响行数
	// WHERE 条件钉住 awaiting_approval,并发决定只有一个赢家
	DecideCAS(id string, status model.RequestStatus, decidedBy string, decidedAt time.Time) (int64, error)
	// History 按提交时间倒序列出指派对的全部请求
	History(taskID, companyID string) ([]*model.CompletionRequestModel, error)
}

// completionRequestRepository 完成请求仓储实现
type completionRequestRepository struct {
	db *gorm.DB
}

// NewCompletionRequestRepository 创建完成请求仓储
func NewCompletionRequestRepository(db *gorm.DB) CompletionRequestRepository {
	return &completionRequestRepository{db: db}
}

// Insert 插入请求
func (r *completionRequestRepository) Insert(req *model.CompletionRequestModel) error {
	return r.db.Create(req).Error
}

// FindByID 根据 ID 查找请求
func (r *completionRequestRepository) FindByID(id string) (*model.CompletionRequestModel, error) {
	var req model.CompletionRequestModel
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindActive 查找指派对的活动请求
func (r *completionRequestRepository) FindActive(taskID, companyID string) (*model.CompletionRequestModel, error) {
	var req model.CompletionRequestModel
	err := r.db.Where("task_id = ? AND company_id = ? AND active IS NOT NULL", taskID, companyID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindLatest 查找指派对最近的一条请求
func (r *completionRequestRepository) FindLatest(taskID, companyID string) (*model.CompletionRequestModel, error) {
	var req model.CompletionRequestModel
	err := r.db.Where("task_id = ? AND company_id = ?", taskID, companyID).
		Order("submitted_at DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindLatestForTasks 批量查找某公司在一组任务上各自最近的请求
func (r *completionRequestRepository) FindLatestForTasks(companyID string, taskIDs []string) (map[string]*model.CompletionRequestModel, error) {
	latest := make(map[string]*model.CompletionRequestModel)
	if len(taskIDs) == 0 {
		return latest, nil
	}

	var reqs []*model.CompletionRequestModel
	err := r.db.Where("company_id = ? AND task_id IN ?", companyID, taskIDs).
		Order("submitted_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}

	// 结果按提交时间倒序,每个任务第一条即最近一条
	for _, req := range reqs {
		if _, ok := latest[req.TaskID]; !ok {
			latest[req.TaskID] = req
		}
	}
	return latest, nil
}

// FindLatestForProject 批量查找一组任务上所有公司各自最近的请求
func (r *completionRequestRepository) FindLatestForProject(taskIDs []string) (map[string]*model.CompletionRequestModel, error) {
	latest := make(map[string]*model.CompletionRequestModel)
	if len(taskIDs) == 0 {
		return latest, nil
	}

	var reqs []*model.CompletionRequestModel
	err := r.db.Where("task_id IN ?", taskIDs).
		Order("submitted_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}

	for _, req := range reqs {
		key := req.TaskID + "|" + req.CompanyID
		if _, ok := latest[key]; !ok {
			latest[key] = req
		}
	}
	return latest, nil
}

// DecideCAS 原子决定
// 驳回时清空 active 标记,释放唯一索引槽位以允许重新提交;通过时保留标记,
// 阻止同一指派对的后续提交
func (r *completionRequestRepository) DecideCAS(id string, status model.RequestStatus, decidedBy string, decidedAt time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     status,
		"decided_at": decidedAt,
		"decided_by": decidedBy,
	}
	if status == model.RequestStatusRejected {
		updates["active"] = nil
	}

	result := r.db.Model(&model.CompletionRequestModel{}).
		Where("id = ? AND status = ?", id, model.RequestStatusAwaitingApproval).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// History 列出指派对的请求历史
func (r *completionRequestRepository) History(taskID, companyID string) ([]*model.CompletionRequestModel, error) {
	var reqs []*model.CompletionRequestModel
	err := r.db.Where("task_id = ? AND company_id = ?", taskID, companyID).
		Order("submitted_at DESC").
		Find(&reqs).Error
	return reqs, err
}
