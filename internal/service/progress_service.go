package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/repository"
	"gorm.io/gorm"
)

// ProgressService 进度服务接口
// 全部为读操作,每次调用从当前任务与台账状态重新计算,不维护任何缓存
type ProgressService interface {
	// Resolve 单个指派对的展示状态
	Resolve(ctx context.Context, taskID, companyID string, today time.Time) (model.TaskCompanyStatus, error)
	// Aggregate 某公司在某项目(含其子项目)范围内的进度快照
	Aggregate(ctx context.Context, companyID, projectID string, today time.Time) (*ProgressSnapshot, error)
	// ProjectRollup 跨公司汇总:逐公司快照加全项目状态分布
	ProjectRollup(ctx context.Context, projectID string, companyIDs []string, today time.Time) (*ProjectRollup, error)
}

// ProgressSnapshot 进度快照
// @Description 公司在项目范围内的完成度汇总
type ProgressSnapshot struct {
	CompanyID                  string                          `json:"company_id"`
	ProjectID                  string                          `json:"project_id"`
	TotalTasks                 int                             `json:"total_tasks"`
	CompletedTasks             int                             `json:"completed_tasks"`
	CompletionPercentage       int                             `json:"completion_percentage"` // round(completed/total*100),无任务时为 0
	StatusCounts               map[model.TaskCompanyStatus]int `json:"status_counts"`
	DistinctSubProjectsTouched int                             `json:"distinct_sub_projects_touched"` // 参与度指标
}

// ProjectRollup 跨公司汇总结果
// @Description 项目级看板数据:逐公司快照与汇总状态分布
type ProjectRollup struct {
	ProjectID    string                          `json:"project_id"`
	Companies    []*ProgressSnapshot             `json:"companies"`
	Distribution map[model.TaskCompanyStatus]int `json:"distribution"` // 全部公司任务状态合计,用于饼图
}

// progressService 进度服务实现
type progressService struct {
	taskRepo repository.TaskRepository
	reqRepo  repository.CompletionRequestRepository
}

// NewProgressService 创建进度服务
func NewProgressService(taskRepo repository.TaskRepository, reqRepo repository.CompletionRequestRepository) ProgressService {
	return &progressService{taskRepo: taskRepo, reqRepo: reqRepo}
}

// Resolve 单个指派对的展示状态
func (s *progressService) Resolve(ctx context.Context, taskID, companyID string, today time.Time) (model.TaskCompanyStatus, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTaskNotFound
		}
		return "", &StorageError{Op: "resolve", Err: err}
	}
	if !task.IsAssignedTo(companyID) {
		return "", &NotAssignedError{TaskID: taskID, CompanyID: companyID}
	}

	latest, err := s.reqRepo.FindLatest(taskID, companyID)
	if err != nil {
		return "", &StorageError{Op: "resolve", Err: err}
	}
	return ResolveTaskStatus(task, latest, today), nil
}

// Aggregate 公司在项目范围内的进度快照
func (s *progressService) Aggregate(ctx context.Context, companyID, projectID string, today time.Time) (*ProgressSnapshot, error) {
	tasks, err := s.taskRepo.FindByProjectAndCompany(projectID, companyID)
	if err != nil {
		return nil, &StorageError{Op: "aggregate", Err: err}
	}

	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	latest, err := s.reqRepo.FindLatestForTasks(companyID, taskIDs)
	if err != nil {
		return nil, &StorageError{Op: "aggregate", Err: err}
	}

	snapshot := newSnapshot(companyID, projectID)
	subProjects := make(map[string]struct{})
	for _, t := range tasks {
		status := ResolveTaskStatus(t, latest[t.ID], today)
		snapshot.StatusCounts[status]++
		if status == model.StatusCompleted {
			snapshot.CompletedTasks++
		}
		if t.SubProjectID != nil && *t.SubProjectID != "" {
			subProjects[*t.SubProjectID] = struct{}{}
		}
	}

	snapshot.TotalTasks = len(tasks)
	snapshot.DistinctSubProjectsTouched = len(subProjects)
	// 零任务除法保护:空范围是合法输入而非错误
	if snapshot.TotalTasks > 0 {
		snapshot.CompletionPercentage = int(math.Round(float64(snapshot.CompletedTasks) / float64(snapshot.TotalTasks) * 100))
	}
	return snapshot, nil
}

// ProjectRollup 跨公司汇总
// companyIDs 为空时取项目内出现过指派的全部公司
func (s *progressService) ProjectRollup(ctx context.Context, projectID string, companyIDs []string, today time.Time) (*ProjectRollup, error) {
	tasks, err := s.taskRepo.FindByFilter(&repository.TaskFilter{ProjectID: &projectID})
	if err != nil {
		return nil, &StorageError{Op: "rollup", Err: err}
	}

	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	latest, err := s.reqRepo.FindLatestForProject(taskIDs)
	if err != nil {
		return nil, &StorageError{Op: "rollup", Err: err}
	}

	if len(companyIDs) == 0 {
		companyIDs = collectCompanies(tasks)
	}

	rollup := &ProjectRollup{
		ProjectID:    projectID,
		Companies:    make([]*ProgressSnapshot, 0, len(companyIDs)),
		Distribution: zeroCounts(),
	}

	for _, companyID := range companyIDs {
		snapshot := newSnapshot(companyID, projectID)
		subProjects := make(map[string]struct{})
		for _, t := range tasks {
			if !t.IsAssignedTo(companyID) {
				continue
			}
			status := ResolveTaskStatus(t, latest[t.ID+"|"+companyID], today)
			snapshot.StatusCounts[status]++
			rollup.Distribution[status]++
			snapshot.TotalTasks++
			if status == model.StatusCompleted {
				snapshot.CompletedTasks++
			}
			if t.SubProjectID != nil && *t.SubProjectID != "" {
				subProjects[*t.SubProjectID] = struct{}{}
			}
		}
		snapshot.DistinctSubProjectsTouched = len(subProjects)
		if snapshot.TotalTasks > 0 {
			snapshot.CompletionPercentage = int(math.Round(float64(snapshot.CompletedTasks) / float64(snapshot.TotalTasks) * 100))
		}
		rollup.Companies = append(rollup.Companies, snapshot)
	}

	return rollup, nil
}

// newSnapshot 创建补零后的快照
func newSnapshot(companyID, projectID string) *ProgressSnapshot {
	return &ProgressSnapshot{
		CompanyID:    companyID,
		ProjectID:    projectID,
		StatusCounts: zeroCounts(),
	}
}

// zeroCounts 四种状态全部补零,保证序列化输出形状稳定
func zeroCounts() map[model.TaskCompanyStatus]int {
	counts := make(map[model.TaskCompanyStatus]int, len(model.AllTaskCompanyStatuses))
	for _, st := range model.AllTaskCompanyStatuses {
		counts[st] = 0
	}
	return counts
}

// collectCompanies 收集任务指派中出现过的公司,保持首次出现顺序
func collectCompanies(tasks []*model.TaskModel) []string {
	seen := make(map[string]struct{})
	companies := make([]string, 0)
	for _, t := range tasks {
		for _, a := range t.Assignments {
			if _, ok := seen[a.CompanyID]; !ok {
				seen[a.CompanyID] = struct{}{}
				companies = append(companies, a.CompanyID)
			}
		}
	}
	return companies
}
