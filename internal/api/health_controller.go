package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/database"
	"gorm.io/gorm"
)

// HealthController 健康检查控制器
type HealthController struct {
	db *gorm.DB
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Check 健康检查
// @Summary      健康检查
// @Description  检查服务与数据库连接状态
// @Tags         系统
// @Produce      json
// @Success      200  {object}  Response
// @Failure      503  {object}  ErrorResponse
// @Router       /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	if !database.CheckHealth(c.db) {
		Error(ctx, http.StatusServiceUnavailable, "unhealthy", "database connection failed")
		return
	}

	Success(ctx, gin.H{
		"status":   "ok",
		"database": "up",
	})
}
