package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/metrics"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/repository"
	"gorm.io/gorm"
)

// TaskService 任务服务接口
// 任务与指派的创建属于管理端外围面,引擎自身的操作只读取任务
type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest) (*model.TaskModel, error)
	Get(id string) (*model.TaskModel, error)
	List(filter *ListTasksRequest) ([]*model.TaskModel, error)
}

// CreateTaskRequest 创建任务请求
// @Description 创建任务及其公司指派集合的请求参数
type CreateTaskRequest struct {
	ProjectID          string   `json:"project_id" example:"proj-001" binding:"required"` // 项目 ID
	SubProjectID       string   `json:"sub_project_id" example:"sub-001"`                 // 子项目 ID,可选
	Name               string   `json:"name" example:"İhracat belgeleri" binding:"required"` // 任务名称
	Description        string   `json:"description" example:"Gerekli belgelerin hazırlanması"` // 任务描述
	ContributionWeight int      `json:"contribution_weight" example:"10"` // 报表加权百分比
	OrderNo            int      `json:"order_no" example:"1"`             // 展示排序
	DueDate            string   `json:"due_date" example:"2025-12-31"`    // 截止日期,YYYY-MM-DD,可选
	CompanyIDs         []string `json:"company_ids" example:"firm-001,firm-002"` // 指派公司集合
}

// ListTasksRequest 任务列表查询参数
type ListTasksRequest struct {
	ProjectID       string `form:"project_id"`
	SubProjectID    string `form:"sub_project_id"`
	CompanyID       string `form:"company_id"`
	LifecycleStatus string `form:"lifecycle_status"`
}

// taskService 任务服务实现
type taskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewTaskService 创建任务服务
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo, now: time.Now}
}

// Create 创建任务
func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest) (*model.TaskModel, error) {
	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, &ValidationError{Field: "due_date", Reason: "due_date must be in YYYY-MM-DD format"}
		}
		dueDate = &parsed
	}

	var subProjectID *string
	if req.SubProjectID != "" {
		subProjectID = &req.SubProjectID
	}

	now := s.now()
	task := &model.TaskModel{
		ID:                 uuid.NewString(),
		ProjectID:          req.ProjectID,
		SubProjectID:       subProjectID,
		Name:               req.Name,
		Description:        req.Description,
		ContributionWeight: req.ContributionWeight,
		OrderNo:            req.OrderNo,
		DueDate:            dueDate,
		LifecycleStatus:    model.LifecycleActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, companyID := range req.CompanyIDs {
		task.Assignments = append(task.Assignments, model.TaskAssignmentModel{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			CompanyID: companyID,
			CreatedAt: now,
		})
	}

	if err := task.Validate(); err != nil {
		return nil, &ValidationError{Field: "task", Reason: err.Error()}
	}
	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	metrics.RecordTaskCreated()
	return task, nil
}

// Get 获取任务详情
func (s *taskService) Get(id string) (*model.TaskModel, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, &StorageError{Op: "get task", Err: err}
	}
	return task, nil
}

// List 查询任务列表
func (s *taskService) List(filter *ListTasksRequest) ([]*model.TaskModel, error) {
	repoFilter := &repository.TaskFilter{}
	if filter != nil {
		if filter.ProjectID != "" {
			repoFilter.ProjectID = &filter.ProjectID
		}
		if filter.SubProjectID != "" {
			repoFilter.SubProjectID = &filter.SubProjectID
		}
		if filter.CompanyID != "" {
			repoFilter.CompanyID = &filter.CompanyID
		}
		if filter.LifecycleStatus != "" {
			repoFilter.LifecycleStatus = &filter.LifecycleStatus
		}
	}

	tasks, err := s.taskRepo.FindByFilter(repoFilter)
	if err != nil {
		return nil, &StorageError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}
