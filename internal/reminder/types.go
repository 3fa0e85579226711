package reminder

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound 订阅不存在，唯一会中止运行的错误
var ErrNotFound = errors.New("subscription not found")

// StatusActive 只有 active 状态的订阅会进入调度
const StatusActive = "active"

// Snapshot 运行入口处读取的订阅快照，运行期间不再刷新
type Snapshot struct {
	SubscriptionID int64     `json:"subscription_id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	Frequency      string    `json:"frequency"`
	PaymentMethod  string    `json:"payment_method"`
	Status         string    `json:"status"`
	RenewalDate    time.Time `json:"renewal_date"`
	UserName       string    `json:"user_name"`
	Recipient      string    `json:"recipient"`
}

// Active 订阅是否处于 active 状态
func (s *Snapshot) Active() bool {
	return s.Status == StatusActive
}

// Marker 单个检查点的完成标记。Scope 标识一次运行，
// 同一 Scope、同一续费日、同一标签只允许发送一次。
type Marker struct {
	Scope          string    `json:"scope"`
	SubscriptionID int64     `json:"subscription_id"`
	RenewalDate    time.Time `json:"renewal_date"`
	Label          string    `json:"label"`
	Recipient      string    `json:"recipient"`
}

// Key 标记的存储键：<scope>:<续费日 YYYYMMDD>:<label>
func (m Marker) Key() string {
	return fmt.Sprintf("%s:%s:%s", m.Scope, m.RenewalDate.UTC().Format("20060102"), m.Label)
}

// Fetcher 按 ID 读取订阅快照，找不到时返回 ErrNotFound
type Fetcher interface {
	Fetch(subscriptionID int64) (*Snapshot, error)
}

// Suspender 持久化挂起，到 at 之后恢复执行
type Suspender interface {
	SuspendUntil(label string, at time.Time) error
}

// Sink 外部通知通道
type Sink interface {
	Notify(recipient, label string, snapshot *Snapshot) error
}

// Ledger 检查点完成标记。Claim 返回 false 表示该检查点已经被处理过。
type Ledger interface {
	Claim(m Marker) (bool, error)
}

// Recorder 可选接口，Ledger 实现后会记录最终的发送结果
type Recorder interface {
	Record(m Marker, sendErr error) error
}

// Clock 当前时间来源，workflow 中使用 workflow.Now
type Clock interface {
	Now() time.Time
}

// ClockFunc 将函数适配为 Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Logger 与 Temporal 的 log.Logger 方法集一致，workflow.GetLogger 可以直接传入
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
