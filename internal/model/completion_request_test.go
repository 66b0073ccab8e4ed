package model_test

import (
	"testing"
	"time"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/model"
	"github.com/stretchr/testify/assert"
)

// validRequest 构造合法的完成请求
func validRequest() *model.CompletionRequestModel {
	active := model.ActiveMarker
	return &model.CompletionRequestModel{
		ID:          "req-001",
		TaskID:      "task-001",
		CompanyID:   "firm-001",
		Note:        "Tüm ihracat belgeleri hazırlandı ve sisteme yüklendi",
		EvidenceURL: "https://cdn.example.com/belge.pdf",
		Status:      model.RequestStatusAwaitingApproval,
		Active:      &active,
		SubmittedAt: time.Now(),
	}
}

// TestCompletionRequestModel_Validate 测试完成请求校验
func TestCompletionRequestModel_Validate(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	// 证据引用至少一项
	req := validRequest()
	req.EvidenceURL = ""
	req.EvidenceName = ""
	assert.Error(t, req.Validate())

	req = validRequest()
	req.EvidenceURL = ""
	req.EvidenceName = "belge.pdf"
	assert.NoError(t, req.Validate())

	req = validRequest()
	req.Note = ""
	assert.Error(t, req.Validate())

	req = validRequest()
	req.CompanyID = ""
	assert.Error(t, req.Validate())
}

// TestRequestStatus_Terminal 测试终态判定
func TestRequestStatus_Terminal(t *testing.T) {
	assert.False(t, model.RequestStatusAwaitingApproval.Terminal())
	assert.True(t, model.RequestStatusAccepted.Terminal())
	assert.True(t, model.RequestStatusRejected.Terminal())
}

// TestTaskModel_IsAssignedTo 测试指派集合判定
func TestTaskModel_IsAssignedTo(t *testing.T) {
	task := &model.TaskModel{
		ID:              "task-001",
		ProjectID:       "proj-001",
		Name:            "Görev",
		LifecycleStatus: model.LifecycleActive,
		Assignments: []model.TaskAssignmentModel{
			{ID: "a-1", TaskID: "task-001", CompanyID: "firm-001"},
			{ID: "a-2", TaskID: "task-001", CompanyID: "firm-002"},
		},
	}
	assert.True(t, task.IsAssignedTo("firm-001"))
	assert.True(t, task.IsAssignedTo("firm-002"))
	assert.False(t, task.IsAssignedTo("firm-999"))
	assert.NoError(t, task.Validate())

	task.ProjectID = ""
	assert.Error(t, task.Validate())
}
