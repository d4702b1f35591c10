package utils

import (
	"errors"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// 错误码
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "RESOURCE_NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// ApiError 自定义API错误
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error 实现error接口
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError 创建API错误
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateNotFoundError 创建资源不存在错误
func CreateNotFoundError(resource string) *ApiError {
	return NewApiError(resource+" not found", http.StatusNotFound, ErrCodeNotFound)
}

// CreateUnauthorizedError 创建未授权错误（身份缺失、归属或角色不匹配）
func CreateUnauthorizedError(message string) *ApiError {
	if message == "" {
		message = "Not authorized"
	}
	return NewApiError(message, http.StatusUnauthorized, ErrCodeUnauthorized)
}

// CreateBadRequestError 创建参数校验错误
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, ErrCodeValidation)
}

// CreateServiceUnavailableError 可选组件未配置
func CreateServiceUnavailableError(message string) *ApiError {
	return NewApiError(message, http.StatusServiceUnavailable, ErrCodeUnavailable)
}

// IsApiError 判断错误是否为指定状态码的API错误
func IsApiError(err error, statusCode int) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// HandleError 处理错误并返回适当的响应
func HandleError(c *gin.Context, err error) {
	if c == nil || err == nil {
		return
	}

	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		Logger.Warn().
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", apiErr.StatusCode).
			Msg("API错误: " + apiErr.Message)

		c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{
			"message": apiErr.Message,
			"code":    apiErr.ErrorCode,
		})
		return
	}

	// 其他未预期的错误，原样透传消息
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, "未处理的服务端错误")

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"message": err.Error(),
	})
}

// MessageResponse 仅返回提示信息
func MessageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}
