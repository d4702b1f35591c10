package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证路由
func RegisterAuthRoutes(router *gin.Engine, h *Handlers) {
	auth := router.Group("/api/auth")

	// 公开路由
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.rateLimit(), h.Auth.Login)

	// 需要认证的路由
	auth.PUT("/profile", h.auth(), h.Auth.UpdateProfile)
	auth.POST("/logout", h.auth(), h.Auth.Logout)
}
