package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/metrics"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const minPasswordLength = 6

// AuthSettings 令牌与系统管理员配置
type AuthSettings struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// UserService 用户与认证
type UserService struct {
	users    UserStore
	revoker  TokenRevoker
	settings AuthSettings
	// 进程内串行化管理员初始化，跨进程由邮箱唯一索引兜底
	bootstrapMu sync.Mutex
	now         func() time.Time
}

// NewUserService 创建用户服务，revoker 为 nil 时注销只在客户端生效
func NewUserService(users UserStore, revoker TokenRevoker, settings AuthSettings) *UserService {
	return &UserService{
		users:    users,
		revoker:  revoker,
		settings: settings,
		now:      time.Now,
	}
}

// Register 注册普通用户
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, utils.CreateBadRequestError("Please add all fields")
	}
	if len(req.Password) < minPasswordLength {
		return nil, utils.CreateBadRequestError("Password must be at least 6 characters")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, utils.CreateBadRequestError("User already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      models.UserRoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, utils.CreateBadRequestError("User already exists")
		}
		return nil, err
	}

	utils.Logger.Info().Str("userId", user.ID.Hex()).Msg("新用户注册")
	return s.authResponse(user)
}

// Login 邮箱密码登录
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if user == nil || !utils.VerifyPassword(req.Password, user.Password) {
		metrics.RecordLoginAttempt(false)
		return nil, utils.CreateUnauthorizedError("Invalid email or password")
	}

	metrics.RecordLoginAttempt(true)
	return s.authResponse(user)
}

// UpdateProfile 更新本人资料，返回新token
func (s *UserService) UpdateProfile(ctx context.Context, actor primitive.ObjectID, req models.ProfileUpdateRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByID(ctx, actor)
	if err != nil {
		return nil, notFoundOr(err, "User")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(req.Email); email != "" {
		user.Email = email
	}
	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, utils.CreateBadRequestError("Password must be at least 6 characters")
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.replaceUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

// Logout 将token加入黑名单直至其过期
func (s *UserService) Logout(ctx context.Context, token string) error {
	if s.revoker == nil || token == "" {
		return nil
	}
	claims, err := utils.ParseToken(token, s.settings.JWTSecret)
	if err != nil {
		return utils.CreateUnauthorizedError("Not authorized, token failed")
	}
	if err := s.revoker.Revoke(ctx, token, utils.TokenRemaining(claims)); err != nil {
		metrics.RecordIntegrationError("redis")
		return err
	}
	return nil
}

// ListUsers 全部用户（不含密码）
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateUser 管理员修改用户姓名/邮箱
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(req.Email); email != "" {
		user.Email = email
	}

	if err := s.replaceUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRole 修改用户角色
func (s *UserService) ChangeRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, utils.CreateBadRequestError("Invalid role: " + string(role))
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User")
	}

	user.Role = role
	if err := s.replaceUser(ctx, user); err != nil {
		return nil, err
	}
	utils.Logger.Info().Str("userId", id.Hex()).Str("role", string(role)).Msg("用户角色变更")
	return user, nil
}

// DeleteUser 删除用户，不能删除自己
func (s *UserService) DeleteUser(ctx context.Context, actor, id primitive.ObjectID) error {
	if actor == id {
		return utils.CreateBadRequestError("You cannot delete your own account")
	}
	return notFoundOr(s.users.Delete(ctx, id), "User")
}

// EnsureSystemAdmin 用户表为空时创建系统管理员（幂等），
// 返回公开线索的归属用户：最早的管理员，没有管理员时为最早的用户
func (s *UserService) EnsureSystemAdmin(ctx context.Context) (*models.User, error) {
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.createSystemAdmin(ctx); err != nil {
			return nil, err
		}
	}

	admin, err := s.users.FindFirstAdmin(ctx)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return s.users.FindFirst(ctx)
}

func (s *UserService) createSystemAdmin(ctx context.Context) error {
	hashed, err := utils.HashPassword(s.settings.AdminPassword)
	if err != nil {
		return err
	}

	now := s.now()
	admin := &models.User{
		Name:      s.settings.AdminName,
		Email:     normalizeEmail(s.settings.AdminEmail),
		Password:  hashed,
		Role:      models.UserRoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		// 其他实例已创建
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}

	utils.Logger.Info().Str("email", admin.Email).Msg("已创建系统管理员")
	return nil
}

func (s *UserService) replaceUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = s.now()
	if err := s.users.Replace(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.CreateBadRequestError("Email already in use")
		}
		return notFoundOr(err, "User")
	}
	return nil
}

func (s *UserService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(user, s.settings.JWTSecret, s.settings.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
