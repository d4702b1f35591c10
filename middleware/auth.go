package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/24SankeerthM/FUTURE-FS-02/metrics"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TokenChecker 查询token是否已注销
type TokenChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// UserLookup 按ID读取当前用户
type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware 认证中间件，checker 为 nil 时不检查注销状态。
// users 不为 nil 时每次请求重新读取用户，角色以数据库为准。
func AuthMiddleware(secret string, checker TokenChecker, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, no token"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, no token"))
			return
		}

		claims, err := utils.ParseToken(token, secret)
		if err != nil {
			utils.Logger.Info().Err(err).Str("path", c.Request.URL.Path).Msg("Token验证失败")
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, token failed"))
			return
		}

		if checker != nil {
			revoked, err := checker.IsRevoked(c.Request.Context(), token)
			if err != nil {
				// 黑名单不可用时放行，令牌本身仍然有效
				utils.Logger.Warn().Err(err).Msg("查询token黑名单失败")
				metrics.RecordIntegrationError("redis")
			} else if revoked {
				utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, token revoked"))
				return
			}
		}

		user, err := utils.NewLoginUser(claims)
		if err != nil {
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, token failed"))
			return
		}

		if users != nil {
			stored, err := users.FindByID(c.Request.Context(), user.ID)
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized, user not found"))
				return
			}
			if err != nil {
				utils.HandleError(c, err)
				return
			}
			user.Name = stored.Name
			user.Role = stored.Role
		}

		c.Set(utils.ContextUserKey, user)
		c.Set(utils.ContextTokenKey, token)
		c.Next()
	}
}

// RequireAdmin 仅管理员可访问，需在 AuthMiddleware 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		if !user.IsAdmin() {
			utils.Logger.Info().
				Str("userId", user.ID.Hex()).
				Str("role", string(user.Role)).
				Str("path", c.Request.URL.Path).
				Msg("权限不足")
			utils.HandleError(c, utils.CreateUnauthorizedError("Not authorized as an admin"))
			return
		}
		c.Next()
	}
}
