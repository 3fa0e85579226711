package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelReminderEvents = "reminder_events"

	EventReminderSent = "reminder_sent"
)

// ReminderEvent 续费提醒事件，由 worker 发布，API 服务转发到用户的 WebSocket
type ReminderEvent struct {
	Type             string    `json:"type"`
	UserID           int64     `json:"user_id"`
	SubscriptionID   int64     `json:"subscription_id"`
	SubscriptionName string    `json:"subscription_name"`
	Label            string    `json:"label"`
	Price            float64   `json:"price"`
	Currency         string    `json:"currency"`
	RenewalDate      time.Time `json:"renewal_date"`
	SentAt           time.Time `json:"sent_at"`
	Message          string    `json:"message,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishReminder 发布提醒事件
func (p *Publisher) PublishReminder(ctx context.Context, evt *ReminderEvent) error {
	if evt.Type == "" {
		evt.Type = EventReminderSent
	}
	if evt.SentAt.IsZero() {
		evt.SentAt = time.Now().UTC()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder event: %w", err)
	}

	return p.client.Publish(ctx, ChannelReminderEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅提醒事件，阻塞直到 ctx 取消
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*ReminderEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelReminderEvents)
	defer pubsub.Close()

	// 等待订阅确认，避免丢失之后立即发布的消息
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var evt ReminderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue // 忽略解析错误
			}

			handler(&evt)
		}
	}
}
