package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/subtrack_go_server/internal/api/middleware"
	"github.com/qs3c/subtrack_go_server/internal/model/dto"
	"github.com/qs3c/subtrack_go_server/internal/pkg/response"
	"github.com/qs3c/subtrack_go_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Get 获取用户信息，只能查看自己
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	info, err := h.userService.GetUser(requesterID, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, info)
}

// Update 修改用户名或密码
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.userService.UpdateUser(requesterID, userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", info)
}
