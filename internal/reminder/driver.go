package reminder

import (
	"errors"
	"fmt"
	"time"
)

// State 一次运行的终态
type State string

const (
	StateCompleted  State = "completed"
	StateTerminated State = "terminated"
)

// Reason 提前结束的原因，均不是错误
type Reason string

const (
	ReasonInactive Reason = "inactive"
	ReasonExpired  Reason = "expired"
)

// Report 运行结果，按检查点顺序记录每个标签的去向
type Report struct {
	SubscriptionID int64    `json:"subscription_id"`
	State          State    `json:"state"`
	Reason         Reason   `json:"reason,omitempty"`
	Fired          []string `json:"fired,omitempty"`
	Skipped        []string `json:"skipped,omitempty"`
	Failed         []string `json:"failed,omitempty"`
	Duplicates     []string `json:"duplicates,omitempty"`
}

// Dependencies Driver 依赖的外部能力。Clock 和 Logger 可为空。
type Dependencies struct {
	Fetcher   Fetcher   // 入口处读取一次订阅
	Suspender Suspender // 挂起到检查点触发时刻
	Sink      Sink      // 发送提醒
	Ledger    Ledger    // 检查点完成标记
	Clock     Clock     // 为空时使用 time.Now
	Logger    Logger    // 为空时不输出日志
}

// Driver 提醒流程状态机：
// Start → Validating → (Terminated | Scheduling) → Completed
type Driver struct {
	leads LeadTimes
	loc   *time.Location
	deps  Dependencies
}

// NewDriver 校验提前天数和必需依赖
func NewDriver(leads LeadTimes, loc *time.Location, deps Dependencies) (*Driver, error) {
	if err := leads.Validate(); err != nil {
		return nil, err
	}
	if deps.Fetcher == nil || deps.Suspender == nil || deps.Sink == nil || deps.Ledger == nil {
		return nil, errors.New("reminder driver requires fetcher, suspender, sink and ledger")
	}
	if deps.Clock == nil {
		deps.Clock = ClockFunc(time.Now)
	}
	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Driver{
		leads: append(LeadTimes(nil), leads...),
		loc:   loc,
		deps:  deps,
	}, nil
}

// Run 执行一次提醒流程。scope 用于完成标记，重新投递同一运行时不会重复发送。
// 只有读取订阅失败会返回 error，其余情况都体现在 Report 中。
func (d *Driver) Run(scope string, subscriptionID int64) (*Report, error) {
	logger := d.deps.Logger

	snapshot, err := d.deps.Fetcher.Fetch(subscriptionID)
	if err == nil && snapshot == nil {
		err = ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to fetch subscription, aborting reminders", "SubscriptionID", subscriptionID, "Error", err)
		return nil, fmt.Errorf("fetch subscription %d: %w", subscriptionID, err)
	}

	report := &Report{SubscriptionID: subscriptionID}

	if !snapshot.Active() {
		logger.Info("Subscription is not active, stopped reminders", "SubscriptionID", subscriptionID, "Status", snapshot.Status)
		report.State, report.Reason = StateTerminated, ReasonInactive
		return report, nil
	}

	if snapshot.RenewalDate.Before(d.deps.Clock.Now()) {
		logger.Info("Renewal date has passed, stopped reminders", "SubscriptionID", subscriptionID, "RenewalDate", snapshot.RenewalDate)
		report.State, report.Reason = StateTerminated, ReasonExpired
		return report, nil
	}

	for _, cp := range BuildSchedule(snapshot.RenewalDate, d.leads) {
		if err := d.process(scope, cp, snapshot, report); err != nil {
			return report, err
		}
	}

	report.State = StateCompleted
	logger.Info("Reminder schedule completed", "SubscriptionID", subscriptionID, "Fired", len(report.Fired), "Skipped", len(report.Skipped))
	return report, nil
}

// process 处理单个检查点，挂起恢复后重新判断同一个检查点
func (d *Driver) process(scope string, cp Checkpoint, snapshot *Snapshot, report *Report) error {
	for {
		switch Evaluate(cp.TriggerAt, d.deps.Clock.Now(), d.loc) {
		case Elapsed:
			d.deps.Logger.Info("Reminder checkpoint elapsed, skipping", "Label", cp.Label, "TriggerAt", cp.TriggerAt)
			report.Skipped = append(report.Skipped, cp.Label)
			return nil
		case Pending:
			d.deps.Logger.Info("Sleeping until reminder", "Label", cp.Label, "TriggerAt", cp.TriggerAt)
			if err := d.deps.Suspender.SuspendUntil(cp.Label, cp.TriggerAt); err != nil {
				return fmt.Errorf("suspend until %s: %w", cp.Label, err)
			}
		case Due:
			d.fire(scope, cp, snapshot, report)
			return nil
		}
	}
}

// fire 先登记完成标记再发送，保证每个检查点最多发送一次。
// 发送失败只记录，不影响后续检查点。
func (d *Driver) fire(scope string, cp Checkpoint, snapshot *Snapshot, report *Report) {
	logger := d.deps.Logger
	marker := Marker{
		Scope:          scope,
		SubscriptionID: snapshot.SubscriptionID,
		RenewalDate:    snapshot.RenewalDate,
		Label:          cp.Label,
		Recipient:      snapshot.Recipient,
	}

	claimed, err := d.deps.Ledger.Claim(marker)
	if err != nil {
		logger.Error("Failed to claim reminder checkpoint", "Label", cp.Label, "Error", err)
		report.Failed = append(report.Failed, cp.Label)
		return
	}
	if !claimed {
		logger.Info("Reminder already triggered, skipping", "Label", cp.Label)
		report.Duplicates = append(report.Duplicates, cp.Label)
		return
	}

	logger.Info("Triggering reminder", "Label", cp.Label, "Recipient", snapshot.Recipient)
	sendErr := d.deps.Sink.Notify(snapshot.Recipient, cp.Label, snapshot)
	if sendErr != nil {
		logger.Warn("Reminder notification failed", "Label", cp.Label, "Error", sendErr)
		report.Failed = append(report.Failed, cp.Label)
	} else {
		report.Fired = append(report.Fired, cp.Label)
	}

	if recorder, ok := d.deps.Ledger.(Recorder); ok {
		if err := recorder.Record(marker, sendErr); err != nil {
			logger.Warn("Failed to record reminder delivery", "Label", cp.Label, "Error", err)
		}
	}
}
