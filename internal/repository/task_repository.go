package repository

import (
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"gorm.io/gorm"
)

// TaskRepository 任务仓储接口
type TaskRepository interface {
	Save(task *model.TaskModel) error
	FindByID(id string) (*model.TaskModel, error)
	FindAll() ([]*model.TaskModel, error)
	FindByFilter(filter *TaskFilter) ([]*model.TaskModel, error)
	FindByProjectAndCompany(projectID, companyID string) ([]*model.TaskModel, error)
}

// TaskFilter 任务查询过滤器
type TaskFilter struct {
	ProjectID       *string
	SubProjectID    *string
	CompanyID       *string
	LifecycleStatus *string
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Save 保存任务
func (r *taskRepository) Save(task *model.TaskModel) error {
	return r.db.Save(task).Error
}

// FindByID 根据 ID 查找任务,携带指派集合
func (r *taskRepository) FindByID(id string) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.Preload("Assignments").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindAll 查找所有任务
func (r *taskRepository) FindAll() ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Preload("Assignments").Order("order_no ASC, created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindByFilter 根据过滤器查找任务
func (r *taskRepository) FindByFilter(filter *TaskFilter) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	query := r.db.Model(&model.TaskModel{}).Preload("Assignments")

	if filter != nil {
		if filter.ProjectID != nil {
			query = query.Where("project_id = ?", *filter.ProjectID)
		}
		if filter.SubProjectID != nil {
			query = query.Where("sub_project_id = ?", *filter.SubProjectID)
		}
		if filter.LifecycleStatus != nil {
			query = query.Where("lifecycle_status = ?", *filter.LifecycleStatus)
		}
		if filter.CompanyID != nil {
			query = query.Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
				Where("task_assignments.company_id = ?", *filter.CompanyID)
		}
	}

	err := query.Order("order_no ASC, created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindByProjectAndCompany 查找某项目下指派给某公司的全部任务
// 项目范围包含其子项目:子项目任务仍携带父项目 ID
func (r *taskRepository) FindByProjectAndCompany(projectID, companyID string) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.Model(&model.TaskModel{}).
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("tasks.project_id = ? AND task_assignments.company_id = ?", projectID, companyID).
		Order("tasks.order_no ASC").
		Find(&tasks).Error
	return tasks, err
}
