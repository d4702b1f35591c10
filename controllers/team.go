package controllers

import (
	"net/http"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

// ChatController 团队聊天
type ChatController struct {
	chat *service.ChatService
}

func NewChatController(chat *service.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// GetMessages 最近的消息，?room= 指定房间
func (cc *ChatController) GetMessages(c *gin.Context) {
	messages, err := cc.chat.ListMessages(c.Request.Context(), c.Query("room"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// CreateMessage 发送消息
func (cc *ChatController) CreateMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.ChatMessageRequest
	if !bindJSON(c, &req, "Invalid data") {
		return
	}

	message, err := cc.chat.PostMessage(c.Request.Context(), req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// AnnouncementController 团队公告
type AnnouncementController struct {
	announcements *service.AnnouncementService
}

func NewAnnouncementController(announcements *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcements: announcements}
}

// GetAnnouncements 启用中的公告
func (ac *AnnouncementController) GetAnnouncements(c *gin.Context) {
	items, err := ac.announcements.ListActive(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateAnnouncement 发布公告
func (ac *AnnouncementController) CreateAnnouncement(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateAnnouncementRequest
	if !bindJSON(c, &req, "Invalid data") {
		return
	}

	announcement, err := ac.announcements.CreateAnnouncement(c.Request.Context(), req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}
