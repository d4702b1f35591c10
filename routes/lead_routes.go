package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterLeadRoutes 注册线索路由
func RegisterLeadRoutes(router *gin.Engine, h *Handlers) {
	leads := router.Group("/api/leads")

	// 公开表单，无需认证
	leads.POST("/public", h.rateLimit(), h.Leads.CreatePublicLead)

	authed := leads.Group("", h.auth())
	authed.GET("", h.Leads.GetLeads)
	authed.POST("", h.Leads.CreateLead)
	authed.GET("/stats", h.Leads.GetStats)
	authed.GET("/export", h.Leads.ExportLeads)
	authed.POST("/bulk", h.Leads.BulkImport)
	authed.POST("/import", h.Leads.ImportFile)
	authed.PUT("/:id", h.Leads.UpdateLead)
	authed.DELETE("/:id", h.Leads.DeleteLead)
	authed.POST("/:id/note", h.Leads.AddNote)
	authed.POST("/:id/email", h.Leads.EmailLead)
}
