package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/qs3c/subtrack_go_server/internal/pkg/pubsub"
	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

const publishTimeout = 3 * time.Second

// EventPublisher 由 pubsub.Publisher 实现
type EventPublisher interface {
	PublishReminder(ctx context.Context, evt *pubsub.ReminderEvent) error
}

// Broadcaster 把提醒发布到 Redis，API 服务再推送给在线用户
type Broadcaster struct {
	publisher EventPublisher
}

func NewBroadcaster(publisher EventPublisher) *Broadcaster {
	return &Broadcaster{publisher: publisher}
}

func (b *Broadcaster) Notify(ctx context.Context, _ string, label string, snapshot *reminder.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := b.publisher.PublishReminder(ctx, &pubsub.ReminderEvent{
		Type:             pubsub.EventReminderSent,
		UserID:           snapshot.UserID,
		SubscriptionID:   snapshot.SubscriptionID,
		SubscriptionName: snapshot.Name,
		Label:            label,
		Price:            snapshot.Price,
		Currency:         snapshot.Currency,
		RenewalDate:      snapshot.RenewalDate,
		Message:          fmt.Sprintf("%s renews on %s", snapshot.Name, snapshot.RenewalDate.Format("2006-01-02")),
	})
	if err != nil {
		return fmt.Errorf("failed to publish reminder event: %w", err)
	}
	return nil
}
