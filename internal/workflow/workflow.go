// Package workflow 把 reminder.Driver 托管到 Temporal 上运行：
// 定时器负责持久化挂起，activity 负责读库、登记完成标记和发送通知。
package workflow

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

const (
	// ErrTypeNotFound 订阅不存在时 activity 返回的不可重试错误类型
	ErrTypeNotFound = "SubscriptionNotFound"
	// ErrTypeInvalidInput 工作流输入无法使用
	ErrTypeInvalidInput = "InvalidReminderInput"
)

// ReminderInput 工作流输入。LeadDays 和 Timezone 在启动时从配置带入，
// 修改配置只影响之后启动的流程。
type ReminderInput struct {
	SubscriptionID int64  `json:"subscription_id"`
	LeadDays       []int  `json:"lead_days,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
}

func (in ReminderInput) leadTimes() reminder.LeadTimes {
	if len(in.LeadDays) == 0 {
		return reminder.DefaultLeadTimes
	}
	return reminder.LeadTimes(in.LeadDays)
}

// ReminderWorkflow 续费提醒工作流，一个订阅的一个续费周期对应一次运行
func ReminderWorkflow(ctx workflow.Context, in ReminderInput) (*reminder.Report, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Reminder workflow started", "SubscriptionID", in.SubscriptionID)

	loc, err := loadLocation(in.Timezone)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	}

	driver, err := reminder.NewDriver(in.leadTimes(), loc, reminder.Dependencies{
		Fetcher:   &activityFetcher{ctx: withReadOptions(ctx)},
		Suspender: &timerSuspender{ctx: ctx},
		Sink:      &activitySink{ctx: withNotifyOptions(ctx)},
		Ledger:    &activityLedger{ctx: withReadOptions(ctx)},
		Clock:     reminder.ClockFunc(func() time.Time { return workflow.Now(ctx) }),
		Logger:    logger,
	})
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	}

	// 以工作流 ID 作为完成标记的作用域，重新启动的运行能识别已发送的检查点
	scope := workflow.GetInfo(ctx).WorkflowExecution.ID

	report, err := driver.Run(scope, in.SubscriptionID)
	if err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
		}
		logger.Error("Reminder workflow failed", "SubscriptionID", in.SubscriptionID, "Error", err)
		return report, err
	}

	logger.Info("Reminder workflow finished",
		"SubscriptionID", in.SubscriptionID,
		"State", report.State,
		"Reason", report.Reason,
		"Fired", report.Fired,
		"Failed", report.Failed)
	return report, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// 读库和登记标记可以安全重试
func withReadOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        30 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{ErrTypeNotFound},
		},
	})
}

// 通知只尝试一次，失败由 Driver 记录后继续
func withNotifyOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
}
