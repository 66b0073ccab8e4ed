package container

import (
	"fmt"
	"time"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/auth"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/config"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/database"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/metrics"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/repository"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/service"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库、仓储、服务与指标收集器
type Container struct {
	db              *gorm.DB
	taskService     service.TaskService
	ledgerService   service.LedgerService
	progressService service.ProgressService
	identity        *auth.IdentityExtractor
	collector       *metrics.Collector
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. 初始化仓储
	taskRepo := repository.NewTaskRepository(db)
	reqRepo := repository.NewCompletionRequestRepository(db)

	// 3. 初始化服务
	taskService := service.NewTaskService(taskRepo)
	ledgerService := service.NewLedgerService(taskRepo, reqRepo)
	progressService := service.NewProgressService(taskRepo, reqRepo)

	// 4. 初始化身份提取器
	var identity *auth.IdentityExtractor
	if cfg.Auth.Enabled {
		identity = auth.NewIdentityExtractor(cfg.Auth.CompanyClaim)
	}

	// 5. 启动指标收集器
	collector := metrics.NewCollector(db, 15*time.Second)
	collector.Start()

	return &Container{
		db:              db,
		taskService:     taskService,
		ledgerService:   ledgerService,
		progressService: progressService,
		identity:        identity,
		collector:       collector,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// TaskService 获取任务服务
func (c *Container) TaskService() service.TaskService {
	return c.taskService
}

// LedgerService 获取台账服务
func (c *Container) LedgerService() service.LedgerService {
	return c.ledgerService
}

// ProgressService 获取进度服务
func (c *Container) ProgressService() service.ProgressService {
	return c.progressService
}

// Identity 获取身份提取器,未启用时为 nil
func (c *Container) Identity() *auth.IdentityExtractor {
	return c.identity
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.collector != nil {
		c.collector.Stop()
	}
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	return nil
}
