package controllers

import (
	"net/http"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

// UserController 团队成员管理（管理员）
type UserController struct {
	users *service.UserService
}

func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

// GetUsers 获取所有用户
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.users.ListUsers(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser 修改用户信息
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if !bindJSON(c, &req, "Invalid user data") {
		return
	}

	user, err := uc.users.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeRole 修改用户角色
func (uc *UserController) ChangeRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.RoleChangeRequest
	if !bindJSON(c, &req, "Role is required") {
		return
	}

	user, err := uc.users.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser 删除用户
func (uc *UserController) DeleteUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := uc.users.DeleteUser(c.Request.Context(), actor.ID, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, "User removed")
}
