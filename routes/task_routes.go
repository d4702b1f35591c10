package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterTaskRoutes 注册任务路由
func RegisterTaskRoutes(router *gin.Engine, h *Handlers) {
	tasks := router.Group("/api/tasks")
	tasks.Use(h.auth())

	tasks.GET("", h.Tasks.GetTasks)
	tasks.POST("", h.Tasks.CreateTask)
	tasks.PUT("/:id", h.Tasks.UpdateTask)
	tasks.DELETE("/:id", h.Tasks.DeleteTask)
}
