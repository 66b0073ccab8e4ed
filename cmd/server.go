/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/api"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/config"
	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/container"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the E-İhracat Platform API server.
The server will listen on the configured host and port,
and provide REST API interfaces for task completion requests,
approval decisions and progress aggregation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 配置日志
		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// 3. 初始化容器
		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 4. 配置热更新:运行时调整日志级别
		if configPath != "" {
			watcher := config.NewConfigWatcher(cfg, configPath)
			watcher.OnConfigChange(func(newCfg *config.Config) {
				if level, perr := logrus.ParseLevel(newCfg.Log.Level); perr == nil {
					logger.SetLevel(level)
					logger.WithField("level", newCfg.Log.Level).Info("log level updated")
				}
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("config watcher disabled")
			} else {
				defer watcher.Stop()
			}
		}

		// 5. 设置路由
		router := setupRoutesWithControllers(ctr, cfg)

		// 6. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		// 启动服务器（在 goroutine 中）
		go func() {
			log.Printf("Server starting on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		log.Println("Server exited")
		return nil
	},
}

// setupRoutesWithControllers 设置路由并绑定控制器
func setupRoutesWithControllers(ctr *container.Container, cfg *config.Config) *gin.Engine {
	router := api.SetupRouter(cfg, ctr.DB())

	taskController := api.NewTaskController(ctr.TaskService())
	requestController := api.NewRequestController(ctr.LedgerService())
	progressController := api.NewProgressController(ctr.ProgressService())

	// API v1 路由组
	v1 := router.Group("/api/v1")
	if identity := ctr.Identity(); identity != nil {
		v1.Use(identity.Middleware())
	}
	{
		// 任务管理路由
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", taskController.Create)
			tasks.GET("", taskController.List)
			tasks.GET("/:id", taskController.Get)

			// 具体路径的路由（必须在 /:id 之后，Gin 会优先匹配更长的路径）
			tasks.POST("/:id/requests", requestController.Submit)
			tasks.GET("/:id/requests", requestController.History)
			tasks.GET("/:id/status", progressController.Resolve)
		}

		// 完成请求路由
		requests := v1.Group("/requests")
		{
			requests.POST("/:id/decision", requestController.Decide)
		}

		// 进度路由
		progress := v1.Group("/progress")
		{
			progress.GET("/companies/:company_id/projects/:project_id", progressController.Aggregate)
			progress.GET("/projects/:project_id/rollup", progressController.Rollup)
		}
	}

	// 自定义 NoRoute 处理器,返回 JSON 格式的 404
	router.NoRoute(func(c *gin.Context) {
		api.Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
	})

	return router
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}

// LoadConfig 加载配置
func LoadConfig(configPath string) (*config.Config, error) {
	return config.Load(configPath)
}
