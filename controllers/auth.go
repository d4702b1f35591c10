package controllers

import (
	"net/http"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 注册、登录与个人资料
type AuthController struct {
	users *service.UserService
}

func NewAuthController(users *service.UserService) *AuthController {
	return &AuthController{users: users}
}

// Register 用户注册
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req, "Please add all fields") {
		return
	}

	resp, err := ac.users.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login 用户登录
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "Please provide email and password") {
		return
	}

	utils.Logger.Info().Str("email", req.Email).Msg("登录尝试")

	resp, err := ac.users.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile 更新个人资料
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.ProfileUpdateRequest
	if !bindJSON(c, &req, "Invalid profile data") {
		return
	}

	resp, err := ac.users.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout 注销当前token
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.users.Logout(c.Request.Context(), c.GetString(utils.ContextTokenKey)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, "Logged out")
}
