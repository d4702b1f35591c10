package utils

import (
	"errors"

	"github.com/24SankeerthM/FUTURE-FS-02/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 上下文中保存当前用户与原始token的键
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// LoginUser 当前登录用户
type LoginUser struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Role models.UserRole    `json:"role"`
}

// IsAdmin 是否管理员
func (u *LoginUser) IsAdmin() bool {
	return u != nil && u.Role == models.UserRoleAdmin
}

// NewLoginUser 由JWT负载构造当前用户
func NewLoginUser(claims *Claims) (*LoginUser, error) {
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, errors.New("token中的用户ID无效")
	}
	return &LoginUser{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

// GetUser 获取认证中间件写入的当前用户
func GetUser(c *gin.Context) (*LoginUser, error) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, CreateUnauthorizedError("Not authorized, no token")
	}
	user, ok := value.(*LoginUser)
	if !ok || user == nil {
		return nil, CreateUnauthorizedError("Not authorized, invalid user")
	}
	return user, nil
}

// ParseObjectID 解析路径中的ID，格式错误视为参数错误
func ParseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, CreateBadRequestError("Invalid id: " + id)
	}
	return objID, nil
}
