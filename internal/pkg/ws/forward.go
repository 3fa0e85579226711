package ws

import (
	"context"

	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/internal/pkg/pubsub"
)

const MessageTypeReminder = "reminder"

// EventSource 提醒事件来源，由 pubsub.Subscriber 实现
type EventSource interface {
	Subscribe(ctx context.Context, handler func(*pubsub.ReminderEvent)) error
}

// Forward 将 worker 发布的提醒事件推送给在线用户，阻塞直到 ctx 取消
func (h *Hub) Forward(ctx context.Context, source EventSource) error {
	return source.Subscribe(ctx, func(evt *pubsub.ReminderEvent) {
		if !h.IsOnline(evt.UserID) {
			return
		}
		if _, err := h.SendToUser(evt.UserID, &Message{Type: MessageTypeReminder, Data: evt}); err != nil {
			h.logger.Warn("failed to forward reminder",
				zap.Int64("user_id", evt.UserID),
				zap.Int64("subscription_id", evt.SubscriptionID),
				zap.Error(err))
		}
	})
}
