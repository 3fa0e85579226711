package reminder

import "time"

// Outcome 检查点相对当前时间的状态
type Outcome int

const (
	// Elapsed 触发日已过，静默跳过，不补发
	Elapsed Outcome = iota
	// Due 触发日就是今天，立即发送
	Due
	// Pending 触发日在以后，挂起到触发时间
	Pending
)

func (o Outcome) String() string {
	switch o {
	case Elapsed:
		return "elapsed"
	case Due:
		return "due"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Evaluate 按 loc 时区下的日历日期比较 triggerAt 与 now。
// 只比较日期，调度延迟导致的晚几分钟唤醒仍然算 Due。
func Evaluate(triggerAt, now time.Time, loc *time.Location) Outcome {
	if loc == nil {
		loc = time.UTC
	}
	trigger := startOfDay(triggerAt.In(loc))
	today := startOfDay(now.In(loc))

	switch {
	case today.After(trigger):
		return Elapsed
	case today.Equal(trigger):
		return Due
	default:
		return Pending
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
