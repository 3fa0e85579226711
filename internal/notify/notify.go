// Package notify 续费提醒的外部通知通道
package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

// Notifier 发送一次提醒，由 SendReminder activity 调用
type Notifier interface {
	Notify(ctx context.Context, recipient, label string, snapshot *reminder.Snapshot) error
}

// NotifierFunc 将函数适配为 Notifier
type NotifierFunc func(ctx context.Context, recipient, label string, snapshot *reminder.Snapshot) error

func (f NotifierFunc) Notify(ctx context.Context, recipient, label string, snapshot *reminder.Snapshot) error {
	return f(ctx, recipient, label, snapshot)
}

// Multi 依次调用所有通道，任一通道失败不影响其他通道
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, recipient, label string, snapshot *reminder.Snapshot) error {
	var errs []error
	for i, n := range m {
		if err := n.Notify(ctx, recipient, label, snapshot); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// BestEffort 包装附加通道：失败只记日志，不影响检查点的发送结果
func BestEffort(name string, n Notifier, logger *zap.Logger) Notifier {
	return NotifierFunc(func(ctx context.Context, recipient, label string, snapshot *reminder.Snapshot) error {
		if err := n.Notify(ctx, recipient, label, snapshot); err != nil {
			logger.Warn("best-effort notifier failed",
				zap.String("notifier", name),
				zap.String("label", label),
				zap.Int64("subscription_id", snapshot.SubscriptionID),
				zap.Error(err),
			)
		}
		return nil
	})
}
