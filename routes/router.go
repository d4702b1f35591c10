package routes

import (
	"github.com/24SankeerthM/FUTURE-FS-02/controllers"
	"github.com/24SankeerthM/FUTURE-FS-02/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖
type Handlers struct {
	JWTSecret     string
	TokenChecker  middleware.TokenChecker // 可为 nil
	Accounts      middleware.UserLookup   // 每次请求重新读取用户角色
	PublicLimiter *middleware.RateLimiter // 登录与公开表单限流，可为 nil

	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Leads         *controllers.LeadController
	Tasks         *controllers.TaskController
	Chat          *controllers.ChatController
	Announcements *controllers.AnnouncementController
	Health        *controllers.HealthController
}

func (h *Handlers) auth() gin.HandlerFunc {
	return middleware.AuthMiddleware(h.JWTSecret, h.TokenChecker, h.Accounts)
}

// rateLimit 未配置限流器时直接放行
func (h *Handlers) rateLimit() gin.HandlerFunc {
	if h.PublicLimiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return h.PublicLimiter.Middleware()
}

// NewEngine 创建gin实例，只信任给定代理转发的客户端IP（限流按IP计数）
func NewEngine(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	return router, nil
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	RegisterAuthRoutes(router, h)
	RegisterUserRoutes(router, h)
	RegisterLeadRoutes(router, h)
	RegisterTaskRoutes(router, h)
	RegisterTeamRoutes(router, h)

	router.GET("/api", h.Health.Index)
	// 健康检查路由
	router.GET("/api/health", h.Health.Health)
	// 数据库状态检查路由（仅管理员）
	router.GET("/api/db-status", h.auth(), middleware.RequireAdmin(), h.Health.DBStatus)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
