// linkhub-app/cmd/server/app.go
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	auth_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/auth"
	category_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/category"
	link_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/link"
	public_handler "github.com/qingmu-w/linkhub-app/internal/app/handler/public"
	"github.com/qingmu-w/linkhub-app/internal/app/middleware"
	"github.com/qingmu-w/linkhub-app/internal/app/task"
	"github.com/qingmu-w/linkhub-app/internal/infra/config"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence"
	"github.com/qingmu-w/linkhub-app/internal/infra/persistence/database"
	"github.com/qingmu-w/linkhub-app/internal/infra/router"
	"github.com/qingmu-w/linkhub-app/internal/pkg/version"
	"github.com/qingmu-w/linkhub-app/pkg/idgen"
	auth_service "github.com/qingmu-w/linkhub-app/pkg/service/auth"
	link_service "github.com/qingmu-w/linkhub-app/pkg/service/link"
	"github.com/qingmu-w/linkhub-app/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	taskBroker *task.Broker
	provider   *persistence.Provider
	linkSvc    link_service.Service
	mw         *middleware.Middleware
}

// PrintBanner 打印应用启动 banner
func (a *App) PrintBanner() {
	banner := `

      ██╗     ██╗███╗   ██╗██╗  ██╗██╗  ██╗██╗   ██╗██████╗
      ██║     ██║████╗  ██║██║ ██╔╝██║  ██║██║   ██║██╔══██╗
      ██║     ██║██╔██╗ ██║█████╔╝ ███████║██║   ██║██████╔╝
      ██║     ██║██║╚██╗██║██╔═██╗ ██╔══██║██║   ██║██╔══██╗
      ███████╗██║██║ ╚████║██║  ██╗██║  ██║╚██████╔╝██████╔╝
      ╚══════╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Link Hub - %s", version.GetVersion())
	log.Printf(" 存储后端: %s", a.provider.Kind())
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化基础设施 ---
	// Redis 是可选的：未配置地址时页面缓存自动降级为空操作。
	var redisClient *redis.Client
	if cfg.GetString(config.KeyRedisAddr) != "" {
		redisClient, err = database.NewRedisClient(context.Background(), cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("连接 Redis 失败: %w", err)
		}
	}
	if err := idgen.InitSqidsEncoder(); err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, nil, fmt.Errorf("初始化 ID 编码器失败: %w", err)
	}
	provider := persistence.NewProvider(cfg)
	cleanup := func() {
		log.Println("执行清理操作：关闭存储和Redis连接...")
		if err := provider.Close(); err != nil {
			log.Printf("⚠️ 关闭存储后端失败: %v", err)
		}
		if redisClient != nil {
			redisClient.Close()
		}
	}

	// 启动时先建一次连接，存储配置错误立即暴露而不是等首个请求。
	if _, err := provider.Store(context.Background()); err != nil {
		return nil, cleanup, fmt.Errorf("初始化存储后端失败: %w", err)
	}

	// --- Phase 3: 初始化业务逻辑层 ---
	cacheSvc := utility.NewCacheService(redisClient)
	tokenSvc, err := auth_service.NewTokenService(cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("初始化认证服务失败: %w", err)
	}
	taskBroker := task.NewBroker(provider)
	linkSvc := link_service.NewService(provider, cacheSvc, taskBroker)

	// --- Phase 4: 初始化表现层 (Handlers) ---
	mw := middleware.NewMiddleware(tokenSvc)
	authHandler := auth_handler.NewHandler(tokenSvc)
	categoryHandler := category_handler.NewHandler(linkSvc)
	linkHandler := link_handler.NewHandler(linkSvc)
	publicHandler := public_handler.NewHandler(linkSvc)

	// --- Phase 5: 初始化路由 ---
	appRouter := router.NewRouter(
		authHandler,
		categoryHandler,
		linkHandler,
		publicHandler,
		mw,
	)

	// --- Phase 6: 配置 Gin 引擎 ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, cleanup, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.ForwardedByClientIP = true
	engine.Use(middleware.Cors())
	appRouter.Setup(engine)

	app := &App{
		cfg:        cfg,
		engine:     engine,
		taskBroker: taskBroker,
		provider:   provider,
		linkSvc:    linkSvc,
		mw:         mw,
	}

	return app, cleanup, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) LinkService() link_service.Service {
	return a.linkSvc
}

func (a *App) Middleware() *middleware.Middleware {
	return a.mw
}

func (a *App) Run() error {
	a.taskBroker.RegisterCronJobs(a.cfg.GetString(config.KeyLinkCheckCron))
	a.taskBroker.Start()
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	a.PrintBanner()

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.taskBroker != nil {
		a.taskBroker.Stop()
		log.Println("任务调度器已停止。")
	}
}
