package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/qs3c/subtrack_go_server/internal/api/middleware"
	"github.com/qs3c/subtrack_go_server/internal/model/dto"
	"github.com/qs3c/subtrack_go_server/internal/pkg/response"
	"github.com/qs3c/subtrack_go_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// List 获取当前用户的订阅
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subs, err := h.subscriptionService.ListMine(userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessList(c, subs)
}

// ListByUser 获取指定用户的订阅
// GET /api/v1/subscriptions/user/:id
func (h *SubscriptionHandler) ListByUser(c *gin.Context) {
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

	subs, err := h.subscriptionService.ListByUser(requesterID, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessList(c, subs)
}

// Upcoming 即将续费的订阅
// GET /api/v1/subscriptions/upcoming-renewals
func (h *SubscriptionHandler) Upcoming(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subs, err := h.subscriptionService.UpcomingRenewals(userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessList(c, subs)
}

// Get 获取订阅详情
// GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Get(userID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, sub)
}

// Create 创建订阅并启动续费提醒
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "创建成功", sub)
}

// Update 更新订阅，不允许出现可修改字段以外的字段
// PUT /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", sub)
}

// Delete 删除订阅
// DELETE /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Delete(c.Request.Context(), userID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Cancel 取消订阅
// PATCH /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, ok := subscriptionID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "已取消", sub)
}

func subscriptionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "无效的订阅ID")
		return 0, false
	}
	return id, true
}
