package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/auth"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/service"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/utils"
)

// ProgressController 进度控制器
// 只读面:状态推导与进度汇总,每次请求重新计算
type ProgressController struct {
	progressService service.ProgressService
}

// NewProgressController 创建进度控制器
func NewProgressController(progressService service.ProgressService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
	}
}

// Resolve 单个指派对的展示状态
// @Summary      查询任务展示状态
// @Description  推导某任务在某公司视角下的展示状态(pending/awaiting_approval/completed/overdue)
// @Tags         进度
// @Produce      json
// @Param        id path string true "任务 ID"
// @Param        company_id query string true "公司 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id}/status [get]
// @Security     BearerAuth
func (c *ProgressController) Resolve(ctx *gin.Context) {
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

	status, err := c.progressService.Resolve(ctx.Request.Context(), taskID, companyID, time.Now())
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{
		"task_id":    taskID,
		"company_id": companyID,
		"status":     status,
	})
}

// Aggregate 公司在项目范围内的进度快照
// @Summary      查询公司项目进度
// @Description  统计公司在项目(含子项目)范围内的任务完成度与状态分布
// @Tags         进度
// @Produce      json
// @Param        company_id path string true "公司 ID"
// @Param        project_id path string true "项目 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /progress/companies/{company_id}/projects/{project_id} [get]
// @Security     BearerAuth
func (c *ProgressController) Aggregate(ctx *gin.Context) {
	companyID := ctx.Param("company_id")
	projectID := ctx.Param("project_id")
	if err := utils.ValidateID(companyID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid company ID", err.Error())
		return
	}
	if err := utils.ValidateID(projectID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	snapshot, err := c.progressService.Aggregate(ctx.Request.Context(), companyID, projectID, time.Now())
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, snapshot)
}

// Rollup 跨公司汇总
// @Summary      查询项目跨公司进度汇总
// @Description  逐公司进度快照加全项目状态分布;companies 为空时覆盖项目内全部指派公司
// @Tags         进度
// @Produce      json
// @Param        project_id path string true "项目 ID"
// @Param        companies query string false "公司 ID 列表,逗号分隔"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /progress/projects/{project_id}/rollup [get]
// @Security     BearerAuth
func (c *ProgressController) Rollup(ctx *gin.Context) {
	projectID := ctx.Param("project_id")
	if err := utils.ValidateID(projectID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	var companyIDs []string
	if raw := ctx.Query("companies"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				companyIDs = append(companyIDs, id)
			}
		}
	}

	rollup, err := c.progressService.ProjectRollup(ctx.Request.Context(), projectID, companyIDs, time.Now())
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, rollup)
}
