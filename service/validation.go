package service

import (
	"errors"

	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var validate = validator.New()

// validateRequest 校验请求结构体，失败时返回带指定提示的参数错误
func validateRequest(req interface{}, message string) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return utils.CreateBadRequestError(message)
		}
		return err
	}
	return nil
}

// notFoundOr 将 mongo.ErrNoDocuments 转换为资源不存在错误
func notFoundOr(err error, resource string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.CreateNotFoundError(resource)
	}
	return err
}
