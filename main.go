package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/config"
	"github.com/24SankeerthM/FUTURE-FS-02/controllers"
	"github.com/24SankeerthM/FUTURE-FS-02/middleware"
	"github.com/24SankeerthM/FUTURE-FS-02/repository"
	"github.com/24SankeerthM/FUTURE-FS-02/routes"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig()

	// 初始化日志
	utils.InitLogger(cfg.LogLevel, cfg.Debug)

	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 错误上报，未配置DSN时跳过
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			AttachStacktrace: true,
		}); err != nil {
			utils.Logger.Warn().Err(err).Msg("初始化Sentry失败")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	// 初始化数据库
	db, err := repository.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Close(context.Background())

	if err := db.InitializeCollections(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
	}

	// 可选组件
	var revoker service.TokenRevoker
	var tokenChecker middleware.TokenChecker
	if cfg.RedisURL != "" {
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("Redis不可用，注销功能关闭")
		} else {
			defer func(client *redis.Client) { _ = client.Close() }(client)
			blacklist := repository.NewTokenBlacklist(client)
			revoker, tokenChecker = blacklist, blacklist
		}
	}

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		rabbit, err := service.NewRabbitMQPublisher(cfg.AMQPURL)
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("RabbitMQ不可用，事件发布关闭")
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	var mailer service.Mailer
	if cfg.SMTP.Enabled() {
		mailer = service.NewSMTPMailer(cfg.SMTP)
	}

	// 业务服务
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, revoker, service.AuthSettings{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      time.Duration(cfg.JWTExpireHours) * time.Hour,
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	leadService := service.NewLeadService(repository.NewLeadRepository(db), userService, publisher, mailer, cfg.PhoneRegion)
	taskService := service.NewTaskService(repository.NewTaskRepository(db))
	chatService := service.NewChatService(repository.NewChatRepository(db), publisher)
	announcementService := service.NewAnnouncementService(repository.NewAnnouncementRepository(db))

	utils.Logger.Info().Msg("开始系统初始化...")
	if _, err := userService.EnsureSystemAdmin(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化管理员账户失败")
	}
	utils.Logger.Info().Msg("系统初始化完成")

	// 定时任务
	scheduler := service.NewScheduler()
	if err := scheduler.SetupJobs(announcementService); err != nil {
		utils.Logger.Fatal().Err(err).Msg("注册定时任务失败")
	}
	scheduler.Start()
	defer scheduler.Stop()

	publicLimiter := middleware.NewRateLimiter(cfg.PublicRatePerMinute, cfg.PublicRateBurst)
	defer publicLimiter.Stop()

	// 创建Gin实例
	router, err := routes.NewEngine(cfg.TrustedProxies)
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("可信代理配置无效")
	}

	// 应用中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLogger(repository.NewOperationLogRepository(db)))

	// 注册路由
	routes.RegisterRoutes(router, &routes.Handlers{
		JWTSecret:     cfg.JWTSecret,
		TokenChecker:  tokenChecker,
		Accounts:      userRepo,
		PublicLimiter: publicLimiter,
		Auth:          controllers.NewAuthController(userService),
		Users:         controllers.NewUserController(userService),
		Leads:         controllers.NewLeadController(leadService),
		Tasks:         controllers.NewTaskController(taskService),
		Chat:          controllers.NewChatController(chatService),
		Announcements: controllers.NewAnnouncementController(announcementService),
		Health:        controllers.NewHealthController(db),
	})

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Error().Err(err).Msg("启动服务器失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
}
