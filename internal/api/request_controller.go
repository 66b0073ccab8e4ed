package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/auth"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/service"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/utils"
)

// RequestController 完成请求控制器
type RequestController struct {
	ledgerService service.LedgerService
}

// NewRequestController 创建完成请求控制器
func NewRequestController(ledgerService service.LedgerService) *RequestController {
	return &RequestController{
		ledgerService: ledgerService,
	}
}

// Submit 提交完成请求
// @Summary      提交完成请求
// @Description  公司为任务提交完成说明与证据引用;同一指派对同时只允许一条待审批或已通过的请求
// @Tags         完成请求
// @Accept       json
// @Produce      json
// @Param        id path string true "任务 ID"
// @Param        request body service.SubmitRequest true "完成说明与证据"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks/{id}/requests [post]
// @Security     BearerAuth
func (c *RequestController) Submit(ctx *gin.Context) {
	taskID := ctx.Param("id")
	if err := utils.ValidateID(taskID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid task ID", err.Error())
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	req.TaskID = taskID
	if req.CompanyID == "" {
		req.CompanyID = auth.CompanyID(ctx)
	}

	created, err := c.ledgerService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, created)
}

// Decide 审批决定
// @Summary      审批完成请求
// @Description  审批人对待审批请求做出通过或驳回的决定;决定不可撤销
// @Tags         完成请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Param        request body service.DecideRequest true "决定内容"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /requests/{id}/decision [post]
// @Security     BearerAuth
func (c *RequestController) Decide(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return
	}

	var req service.DecideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if req.DecidedBy == "" {
		req.DecidedBy = auth.UserID(ctx)
	}

	decided, err := c.ledgerService.Decide(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, decided)
}

// History 请求历史
// @Summary      查询请求历史
// @Description  按提交时间倒序列出某任务某公司的全部完成请求,含已驳回记录
// @Tags         完成请求
// @Produce      json
// @Param        id path string true "任务 ID"
// @Param        company_id query string true "公司 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks/{id}/requests [get]
// @Security     BearerAuth
func (c *RequestController) History(ctx *gin.Context) {
	taskID := ctx.Param("id")
	if err := utils.ValidateID(taskID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid task ID", err.Error())
		return
	}
	companyID := ctx.Query("company_id")
	if companyID == "" {
		companyID = auth.CompanyID(ctx)
	}
	if companyID == "" {
		Error(ctx, http.StatusBadRequest, "invalid request", "company_id is required")
		return
	}

	reqs, err := c.ledgerService.History(ctx.Request.Context(), taskID, companyID)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, reqs)
}
