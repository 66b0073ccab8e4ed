package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/metrics"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/repository"
	"gorm.io/gorm"
)

// 说明长度边界(策略值,单位为字符)
const (
	NoteMinLen = 20
	NoteMaxLen = 500
)

// LedgerService 完成请求台账服务接口
// 维护核心不变量:每个 (task, company) 指派对同时最多存在一条待审批或已通过的请求
type LedgerService interface {
	Submit(ctx context.Context, req *SubmitRequest) (*model.CompletionRequestModel, error)
	Decide(ctx context.Context, id string, req *DecideRequest) (*model.CompletionRequestModel, error)
	History(ctx context.Context, taskID, companyID string) ([]*model.CompletionRequestModel, error)
}

// SubmitRequest 提交完成请求的请求参数
// 任务 ID 由路径给出,公司 ID 缺省取调用方身份
// @Description 公司提交任务完成证据的请求参数
type SubmitRequest struct {
	TaskID       string `json:"task_id" example:"task-001"`    // 任务 ID
	CompanyID    string `json:"company_id" example:"firm-001"` // 公司 ID
	Note         string `json:"note" example:"Tüm ihracat belgeleri hazırlandı ve yüklendi"` // 完成说明,20-500 字符
	EvidenceURL  string `json:"evidence_url" example:"https://cdn.example.com/belge.pdf"`    // 证据链接
	EvidenceName string `json:"evidence_name" example:"belge.pdf"`                           // 证据文件名
}

// DecideRequest 审批决定的请求参数
// @Description 审批人对完成请求的决定
type DecideRequest struct {
	Decision  string `json:"decision" example:"accept" binding:"required,oneof=accept reject"` // accept 或 reject
	DecidedBy string `json:"decided_by" example:"admin-001"`                                   // 审批人 ID,缺省取调用方身份
}

// ledgerService 台账服务实现
type ledgerService struct {
	taskRepo repository.TaskRepository
	reqRepo  repository.CompletionRequestRepository
	now      func() time.Time
}

// NewLedgerService 创建台账服务
func NewLedgerService(taskRepo repository.TaskRepository, reqRepo repository.CompletionRequestRepository) LedgerService {
	return &ledgerService{
		taskRepo: taskRepo,
		reqRepo:  reqRepo,
		now:      time.Now,
	}
}

// Submit 提交完成请求
// 校验通过后执行单次条件插入:唯一索引在数据库侧关闭了先查后插的竞态窗口,
// 冲突行为事后分类为 DuplicatePending 或 AlreadyCompleted
func (s *ledgerService) Submit(ctx context.Context, req *SubmitRequest) (*model.CompletionRequestModel, error) {
	// 1. 字段校验
	if strings.TrimSpace(req.TaskID) == "" {
		return nil, &ValidationError{Field: "task_id", Reason: "task_id is required"}
	}
	if strings.TrimSpace(req.CompanyID) == "" {
		return nil, &ValidationError{Field: "company_id", Reason: "company_id is required"}
	}
	note := strings.TrimSpace(req.Note)
	if n := utf8.RuneCountInString(note); n < NoteMinLen || n > NoteMaxLen {
		return nil, &ValidationError{Field: "note", Reason: "note must be between 20 and 500 characters"}
	}
	if strings.TrimSpace(req.EvidenceURL) == "" && strings.TrimSpace(req.EvidenceName) == "" {
		return nil, &ValidationError{Field: "evidence", Reason: "at least one of evidence_url or evidence_name is required"}
	}

	// 2. 任务与指派检查
	task, err := s.taskRepo.FindByID(req.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, &StorageError{Op: "submit", Err: err}
	}
	if !task.IsAssignedTo(req.CompanyID) {
		return nil, &NotAssignedError{TaskID: req.TaskID, CompanyID: req.CompanyID}
	}
	if task.LifecycleStatus == model.LifecycleInactive {
		return nil, &TaskClosedError{TaskID: req.TaskID}
	}

	// 3. 原子条件插入
	active := model.ActiveMarker
	record := &model.CompletionRequestModel{
		ID:           uuid.NewString(),
		TaskID:       req.TaskID,
		CompanyID:    req.CompanyID,
		Note:         note,
		EvidenceURL:  strings.TrimSpace(req.EvidenceURL),
		EvidenceName: strings.TrimSpace(req.EvidenceName),
		Status:       model.RequestStatusAwaitingApproval,
		Active:       &active,
		SubmittedAt:  s.now(),
	}

	// 冲突行可能在分类读取前被并发驳回释放,此时重试一次插入
	for attempt := 0; attempt < 2; attempt++ {
		err = s.reqRepo.Insert(record)
		if err == nil {
			metrics.RecordSubmission()
			return record, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &StorageError{Op: "submit", Err: err}
		}

		existing, findErr := s.reqRepo.FindActive(req.TaskID, req.CompanyID)
		if findErr != nil {
			return nil, &StorageError{Op: "submit", Err: findErr}
		}
		if existing == nil {
			continue
		}
		if existing.Status == model.RequestStatusAccepted {
			return nil, &AlreadyCompletedError{ExistingID: existing.ID, ExistingStatus: existing.Status}
		}
		return nil, &DuplicatePendingError{ExistingID: existing.ID, ExistingStatus: existing.Status}
	}

	return nil, &StorageError{Op: "submit", Err: err}
}

// Decide 审批决定
// 单条 CAS 更新,WHERE 条件钉住待审批状态;并发决定恰好一个赢家,
// 落败方收到 NotPending。通知等副作用由调用方负责,引擎不触发
func (s *ledgerService) Decide(ctx context.Context, id string, req *DecideRequest) (*model.CompletionRequestModel, error) {
	var status model.RequestStatus
	switch req.Decision {
	case "accept":
		status = model.RequestStatusAccepted
	case "reject":
		status = model.RequestStatusRejected
	default:
		return nil, &ValidationError{Field: "decision", Reason: "decision must be accept or reject"}
	}
	if strings.TrimSpace(req.DecidedBy) == "" {
		return nil, &ValidationError{Field: "decided_by", Reason: "decided_by is required"}
	}

	rows, err := s.reqRepo.DecideCAS(id, status, req.DecidedBy, s.now())
	if err != nil {
		return nil, &StorageError{Op: "decide", Err: err}
	}
	if rows == 0 {
		// 区分请求不存在与已被决定
		if _, findErr := s.reqRepo.FindByID(id); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, ErrRequestNotFound
			}
			return nil, &StorageError{Op: "decide", Err: findErr}
		}
		return nil, ErrNotPending
	}

	decided, err := s.reqRepo.FindByID(id)
	if err != nil {
		return nil, &StorageError{Op: "decide", Err: err}
	}

	metrics.RecordDecision(req.Decision)
	return decided, nil
}

// History 请求历史
// 驳回记录在这里对管理端可见,但不参与任何进度统计
func (s *ledgerService) History(ctx context.Context, taskID, companyID string) ([]*model.CompletionRequestModel, error) {
	reqs, err := s.reqRepo.History(taskID, companyID)
	if err != nil {
		return nil, &StorageError{Op: "history", Err: err}
	}
	return reqs, nil
}
