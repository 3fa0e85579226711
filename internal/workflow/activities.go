package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/qs3c/subtrack_go_server/internal/ledger"
	"github.com/qs3c/subtrack_go_server/internal/notify"
	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

// SendRequest SendReminder 的输入
type SendRequest struct {
	Recipient string            `json:"recipient"`
	Label     string            `json:"label"`
	Snapshot  reminder.Snapshot `json:"snapshot"`
}

// RecordRequest RecordDelivery 的输入，Error 为空表示发送成功
type RecordRequest struct {
	Marker reminder.Marker `json:"marker"`
	Error  string          `json:"error,omitempty"`
}

// Activities 提醒工作流用到的全部 activity
type Activities struct {
	fetcher  reminder.Fetcher
	store    ledger.Store
	notifier notify.Notifier
}

func NewActivities(fetcher reminder.Fetcher, store ledger.Store, notifier notify.Notifier) *Activities {
	return &Activities{fetcher: fetcher, store: store, notifier: notifier}
}

// FetchSubscription 读取订阅快照，订阅不存在时返回不可重试错误
func (a *Activities) FetchSubscription(ctx context.Context, subscriptionID int64) (*reminder.Snapshot, error) {
	logger := activity.GetLogger(ctx)

	snapshot, err := a.fetcher.Fetch(subscriptionID)
	if err == nil && snapshot == nil {
		err = reminder.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			logger.Warn("Subscription not found", "SubscriptionID", subscriptionID)
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
		}
		return nil, fmt.Errorf("failed to fetch subscription %d: %w", subscriptionID, err)
	}

	logger.Info("Fetched subscription", "SubscriptionID", subscriptionID, "Status", snapshot.Status, "RenewalDate", snapshot.RenewalDate)
	return snapshot, nil
}

// ClaimCheckpoint 登记完成标记，返回 false 表示该检查点已处理过
func (a *Activities) ClaimCheckpoint(ctx context.Context, m reminder.Marker) (bool, error) {
	claimed, err := a.store.Claim(ctx, m)
	if err != nil {
		return false, err
	}
	activity.GetLogger(ctx).Info("Checkpoint claim", "Key", m.Key(), "Claimed", claimed)
	return claimed, nil
}

// SendReminder 发送提醒，失败直接返回，由工作流决定如何处理
func (a *Activities) SendReminder(ctx context.Context, req SendRequest) error {
	activity.GetLogger(ctx).Info("Sending reminder", "Label", req.Label, "Recipient", req.Recipient)

	snapshot := req.Snapshot
	return a.notifier.Notify(ctx, req.Recipient, req.Label, &snapshot)
}

// RecordDelivery 记录发送结果
func (a *Activities) RecordDelivery(ctx context.Context, req RecordRequest) error {
	var sendErr error
	if req.Error != "" {
		sendErr = errors.New(req.Error)
	}
	return a.store.Record(ctx, req.Marker, sendErr)
}
