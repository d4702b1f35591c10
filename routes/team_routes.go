package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterTeamRoutes 注册聊天与公告路由
func RegisterTeamRoutes(router *gin.Engine, h *Handlers) {
	chat := router.Group("/api/chat")
	chat.Use(h.auth())
	chat.GET("", h.Chat.GetMessages)
	chat.POST("", h.Chat.CreateMessage)

	announcements := router.Group("/api/announcements")
	announcements.Use(h.auth())
	announcements.GET("", h.Announcements.GetAnnouncements)
	announcements.POST("", h.Announcements.CreateAnnouncement)
}
