package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/subtrack_go_server/internal/pkg/response"
	"github.com/qs3c/subtrack_go_server/internal/service"
)

// writeServiceError 将 service 层的哨兵错误映射为响应码
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		response.ConflictError(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.AuthError(c, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSubscriptionNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNoUpdateFields),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidStartDate),
		errors.Is(err, service.ErrInvalidRenewalDate),
		errors.Is(err, service.ErrSubscriptionInactive):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrReminderUnavailable):
		_ = c.Error(err)
		response.UnavailableError(c, service.ErrReminderUnavailable.Error())
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}

// bindJSON 绑定并校验请求体，失败时已写入参数错误响应
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ParamError(c, err.Error())
		return false
	}
	return true
}
