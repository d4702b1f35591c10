package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

const operationLogSaveTimeout = 5 * time.Second

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径
var excludedPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
	"/api/health":        true,
}

// 请求体中需要脱敏的字段
var sensitiveKeys = map[string]bool{
	"password":      true,
	"token":         true,
	"authorization": true,
	"secret":        true,
	"key":           true,
}

// OperationLogStore 操作日志存储
type OperationLogStore interface {
	Insert(ctx context.Context, log *models.OperationLog) error
}

// bodyLogWriter 捕获响应体，用于提取失败原因
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// OperationLogger 记录写操作审计日志
func OperationLogger(store OperationLogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()

		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		requestBody := readRequestBody(c)

		c.Next()

		status := c.Writer.Status()
		operationLog := models.OperationLog{
			RequestID:    GetRequestID(c),
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			Route:        c.FullPath(),
			RequestBody:  sanitizeData(requestBody),
			StatusCode:   status,
			Success:      status < http.StatusBadRequest,
			OperatedAt:   startTime,
			ResponseTime: time.Since(startTime).Milliseconds(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}
		operationLog.OperatorID, operationLog.OperatorName, operationLog.OperatorRole = extractUserInfo(c)
		if !operationLog.Success {
			operationLog.ErrorMessage = extractErrorMessage(c, blw.body.Bytes())
		}

		ctx, cancel := context.WithTimeout(context.Background(), operationLogSaveTimeout)
		defer cancel()
		if err := store.Insert(ctx, &operationLog); err != nil {
			utils.Logger.Error().Err(err).Msg("保存操作日志失败")
			// 尝试保存最小日志
			minimalLog := operationLog
			minimalLog.RequestBody = nil
			minimalLog.ErrorMessage = fmt.Sprintf("保存详细日志失败: %v", err)
			if saveErr := store.Insert(ctx, &minimalLog); saveErr != nil {
				utils.Logger.Error().Err(saveErr).Msg("保存最小日志失败")
			}
		}
	}
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

// readRequestBody 读取并重置请求体，JSON 解析失败时按字符串记录；文件上传不记录内容
func readRequestBody(c *gin.Context) interface{} {
	if c.Request.Body == nil {
		return nil
	}
	contentType := c.Request.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		return "[multipart]"
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("读取请求体失败")
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
	if len(raw) == 0 {
		return nil
	}

	if strings.Contains(contentType, "application/json") {
		var body interface{}
		if err := json.Unmarshal(raw, &body); err == nil {
			return body
		}
		utils.Logger.Warn().Msg("解析JSON请求体失败")
	}
	return string(raw)
}

// extractUserInfo 从上下文中提取用户信息，未认证时为匿名
func extractUserInfo(c *gin.Context) (string, string, string) {
	user, err := utils.GetUser(c)
	if err != nil {
		return "anonymous", "anonymous", ""
	}
	return user.ID.Hex(), user.Name, string(user.Role)
}

func extractErrorMessage(c *gin.Context, body []byte) string {
	if len(c.Errors) > 0 {
		return c.Errors.String()
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	return http.StatusText(c.Writer.Status())
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			if sensitiveKeys[strings.ToLower(k)] {
				sanitized[k] = "******"
			} else {
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	}
	return data
}
