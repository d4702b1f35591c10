package routes

import (
	"github.com/24SankeerthM/FUTURE-FS-02/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户管理路由，全部仅管理员
func RegisterUserRoutes(router *gin.Engine, h *Handlers) {
	users := router.Group("/api/users")
	users.Use(h.auth(), middleware.RequireAdmin())

	users.GET("", h.Users.GetUsers)
	users.PUT("/:id", h.Users.UpdateUser)
	users.PUT("/:id/role", h.Users.ChangeRole)
	users.DELETE("/:id", h.Users.DeleteUser)
}
