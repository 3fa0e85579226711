package workflow

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

var a *Activities

type activityFetcher struct {
	ctx workflow.Context
}

func (f *activityFetcher) Fetch(subscriptionID int64) (*reminder.Snapshot, error) {
	var snapshot reminder.Snapshot
	err := workflow.ExecuteActivity(f.ctx, a.FetchSubscription, subscriptionID).Get(f.ctx, &snapshot)
	if err != nil {
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) && appErr.Type() == ErrTypeNotFound {
			return nil, reminder.ErrNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// timerSuspender 用持久化定时器挂起，进程重启后由 Temporal 恢复
type timerSuspender struct {
	ctx workflow.Context
}

func (s *timerSuspender) SuspendUntil(label string, at time.Time) error {
	d := at.Sub(workflow.Now(s.ctx))
	if d <= 0 {
		return nil
	}
	workflow.GetLogger(s.ctx).Info("Timer started", "Label", label, "WakeAt", at, "Duration", d)
	return workflow.NewTimer(s.ctx, d).Get(s.ctx, nil)
}

type activitySink struct {
	ctx workflow.Context
}

func (s *activitySink) Notify(recipient, label string, snapshot *reminder.Snapshot) error {
	req := SendRequest{Recipient: recipient, Label: label, Snapshot: *snapshot}
	return workflow.ExecuteActivity(s.ctx, a.SendReminder, req).Get(s.ctx, nil)
}

type activityLedger struct {
	ctx workflow.Context
}

func (l *activityLedger) Claim(m reminder.Marker) (bool, error) {
	var claimed bool
	err := workflow.ExecuteActivity(l.ctx, a.ClaimCheckpoint, m).Get(l.ctx, &claimed)
	return claimed, err
}

func (l *activityLedger) Record(m reminder.Marker, sendErr error) error {
	req := RecordRequest{Marker: m}
	if sendErr != nil {
		req.Error = sendErr.Error()
		// 只保留 activity 返回的原始错误信息
		var appErr *temporal.ApplicationError
		if errors.As(sendErr, &appErr) {
			req.Error = appErr.Error()
		}
	}
	return workflow.ExecuteActivity(l.ctx, a.RecordDelivery, req).Get(l.ctx, nil)
}
