package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/subtrack_go_server/internal/api/middleware"
	"github.com/qs3c/subtrack_go_server/internal/model/dto"
	"github.com/qs3c/subtrack_go_server/internal/pkg/response"
	"github.com/qs3c/subtrack_go_server/internal/service"
)

type WorkflowHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewWorkflowHandler(subscriptionService *service.SubscriptionService) *WorkflowHandler {
	return &WorkflowHandler{
		subscriptionService: subscriptionService,
	}
}

// TriggerReminder 手动启动订阅的续费提醒流程，已有的流程会被替换
// POST /api/v1/workflows/subscription/reminder
func (h *WorkflowHandler) TriggerReminder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.TriggerReminderRequest
	if !bindJSON(c, &req) {
		return
	}

	exec, err := h.subscriptionService.StartReminder(c.Request.Context(), userID, req.SubscriptionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "提醒流程已启动", dto.TriggerReminderResponse{
		WorkflowID: exec.WorkflowID,
		RunID:      exec.RunID,
	})
}
