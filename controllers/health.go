package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

// DatabaseStatus 数据库健康与集合统计
type DatabaseStatus interface {
	Ping(ctx context.Context) error
	GetDatabaseStatus(ctx context.Context) map[string]interface{}
}

// HealthController 健康检查
type HealthController struct {
	db DatabaseStatus
}

func NewHealthController(db DatabaseStatus) *HealthController {
	return &HealthController{db: db}
}

// Index API 根路径
func (hc *HealthController) Index(c *gin.Context) {
	utils.MessageResponse(c, http.StatusOK, "CRM API is running")
}

// Health 存活检查，数据库不可达时返回 503
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := hc.db.Ping(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("健康检查失败")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Database connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// DBStatus 各集合文档数量
func (hc *HealthController) DBStatus(c *gin.Context) {
	c.JSON(http.StatusOK, hc.db.GetDatabaseStatus(c.Request.Context()))
}
