package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // 普通成员
	UserRoleAdmin UserRole = "admin" // 管理员
)

// Valid 角色是否合法
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User 用户类型
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // 不返回密码
	Role      UserRole           `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// RegisterRequest 注册请求
	RegisterRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	// ProfileUpdateRequest 更新个人资料，字段为空表示不修改
	ProfileUpdateRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"omitempty,min=6"`
	}

	// UpdateUserRequest 管理员更新用户
	UpdateUserRequest struct {
		Name  string `json:"name"`
		Email string `json:"email" binding:"omitempty,email"`
	}

	// RoleChangeRequest 修改角色
	RoleChangeRequest struct {
		Role UserRole `json:"role" binding:"required"`
	}

	// AuthResponse 登录/注册响应，与前端保持一致的扁平结构
	AuthResponse struct {
		ID    primitive.ObjectID `json:"_id"`
		Name  string             `json:"name"`
		Email string             `json:"email"`
		Role  UserRole           `json:"role"`
		Token string             `json:"token"`
	}
)
