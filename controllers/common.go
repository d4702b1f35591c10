package controllers

import (
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bindJSON 绑定请求体，失败时以指定提示返回400
func bindJSON(c *gin.Context, obj interface{}, message string) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.Logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("请求参数绑定失败")
		utils.HandleError(c, utils.CreateBadRequestError(message))
		return false
	}
	return true
}

// pathID 解析路径参数 :id
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser 当前登录用户，未认证时已写出401
func currentUser(c *gin.Context) (*utils.LoginUser, bool) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}
	return user, true
}
