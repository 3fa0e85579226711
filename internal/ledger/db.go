package ledger

import (
	"context"
	"fmt"

	"github.com/qs3c/subtrack_go_server/internal/model"
	"github.com/qs3c/subtrack_go_server/internal/reminder"
	"github.com/qs3c/subtrack_go_server/internal/repository"
)

// DBLedger 以 reminder_deliveries 表的唯一索引作为完成标记，同时保留发送记录
type DBLedger struct {
	repo *repository.ReminderDeliveryRepository
}

func NewDBLedger(repo *repository.ReminderDeliveryRepository) *DBLedger {
	return &DBLedger{repo: repo}
}

func (l *DBLedger) Claim(ctx context.Context, m reminder.Marker) (bool, error) {
	created, err := l.repo.CreateIfAbsent(ctx, &model.ReminderDelivery{
		MarkerKey:      m.Key(),
		Scope:          m.Scope,
		SubscriptionID: m.SubscriptionID,
		RenewalDate:    m.RenewalDate.UTC(),
		Label:          m.Label,
		Recipient:      m.Recipient,
		Status:         model.DeliveryStatusPending,
	})
	if err != nil {
		return false, fmt.Errorf("failed to claim marker: %w", err)
	}
	return created, nil
}

func (l *DBLedger) Record(ctx context.Context, m reminder.Marker, sendErr error) error {
	status, msg := resultOf(sendErr)
	if err := l.repo.UpdateResult(ctx, m.Key(), status, msg); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}
