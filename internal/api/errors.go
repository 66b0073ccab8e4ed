package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/service"
)

// HandleServiceError 将服务层错误族映射为 HTTP 响应
// 映射集中在这里,控制器不重复分派
func HandleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notAssignedErr *service.NotAssignedError
	var taskClosedErr *service.TaskClosedError
	var duplicateErr *service.DuplicatePendingError
	var completedErr *service.AlreadyCompletedError
	var storageErr *service.StorageError

	switch {
	case errors.As(err, &validationErr):
		Error(c, http.StatusBadRequest, "validation failed", validationErr.Error())
	case errors.As(err, &notAssignedErr):
		Error(c, http.StatusForbidden, "company not assigned to task", notAssignedErr.Error())
	case errors.As(err, &taskClosedErr):
		Error(c, http.StatusConflict, "task closed for submissions", taskClosedErr.Error())
	case errors.As(err, &duplicateErr):
		// 带上既有请求信息,前端展示"已提交"而非笼统失败
		Error(c, http.StatusConflict, "completion request already pending",
			fmt.Sprintf("existing request %s in status %s", duplicateErr.ExistingID, duplicateErr.ExistingStatus))
	case errors.As(err, &completedErr):
		Error(c, http.StatusConflict, "task already completed",
			fmt.Sprintf("existing request %s in status %s", completedErr.ExistingID, completedErr.ExistingStatus))
	case errors.Is(err, service.ErrNotPending):
		Error(c, http.StatusConflict, "request already processed", err.Error())
	case errors.Is(err, service.ErrTaskNotFound), errors.Is(err, service.ErrRequestNotFound):
		Error(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &storageErr):
		Error(c, http.StatusInternalServerError, "storage failure", storageErr.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
