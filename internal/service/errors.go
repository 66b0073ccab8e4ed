package service

import (
	"errors"
	"fmt"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
)

// 引擎对外的错误族:全部为普通错误值,调用方通过 errors.As/Is 分派
// 校验类错误从不触达存储层

// ValidationError 字段校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotAssignedError 公司不在任务的指派集合中
type NotAssignedError struct {
	TaskID    string
	CompanyID string
}

func (e *NotAssignedError) Error() string {
	return fmt.Sprintf("company %s is not assigned to task %s", e.CompanyID, e.TaskID)
}

// TaskClosedError 任务生命周期禁止新提交
type TaskClosedError struct {
	TaskID string
}

func (e *TaskClosedError) Error() string {
	return fmt.Sprintf("task %s is closed for submissions", e.TaskID)
}

// DuplicatePendingError 指派对已存在待审批请求
// 携带既有请求信息,UI 可以展示"已提交"而非笼统失败
type DuplicatePendingError struct {
	ExistingID     string
	ExistingStatus model.RequestStatus
}

func (e *DuplicatePendingError) Error() string {
	return fmt.Sprintf("a pending completion request already exists: %s", e.ExistingID)
}

// AlreadyCompletedError 指派对已有通过的请求
type AlreadyCompletedError struct {
	ExistingID     string
	ExistingStatus model.RequestStatus
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("task already completed by accepted request: %s", e.ExistingID)
}

// 哨兵错误
var (
	// ErrNotPending 对已决定的请求再次决定
	ErrNotPending = errors.New("request is not awaiting approval")
	// ErrTaskNotFound 任务不存在
	ErrTaskNotFound = errors.New("task not found")
	// ErrRequestNotFound 请求不存在
	ErrRequestNotFound = errors.New("completion request not found")
)

// StorageError 包装底层持久化失败
// 引擎不自动重试;Submit/Decide 对不变量与 CAS 幂等,调用方可整体重试
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
