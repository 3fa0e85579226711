package reminder

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLeadTimes = errors.New("invalid reminder lead times")

// LeadTimes 续费前多少天发送提醒，必须为正数且严格递减
type LeadTimes []int

// DefaultLeadTimes 默认提醒节点
var DefaultLeadTimes = LeadTimes{7, 5, 2, 1}

// Validate 校验提前天数：正数、严格递减（同时排除了重复值）
func (l LeadTimes) Validate() error {
	for i, days := range l {
		if days <= 0 {
			return fmt.Errorf("%w: %d is not a positive number of days", ErrInvalidLeadTimes, days)
		}
		if i > 0 && days >= l[i-1] {
			return fmt.Errorf("%w: %d must be smaller than %d", ErrInvalidLeadTimes, days, l[i-1])
		}
	}
	return nil
}

// Checkpoint 单个提醒节点，每次运行时重新计算，不单独持久化
type Checkpoint struct {
	LeadDays  int       `json:"lead_days"`
	TriggerAt time.Time `json:"trigger_at"`
	Label     string    `json:"label"`
}

// Label 提醒节点的标签，例如 "7 days before reminder"
func Label(leadDays int) string {
	return fmt.Sprintf("%d days before reminder", leadDays)
}

// BuildSchedule 根据续费日期生成提醒节点，保持 leads 的顺序
func BuildSchedule(renewal time.Time, leads LeadTimes) []Checkpoint {
	schedule := make([]Checkpoint, 0, len(leads))
	for _, days := range leads {
		schedule = append(schedule, Checkpoint{
			LeadDays:  days,
			TriggerAt: renewal.AddDate(0, 0, -days),
			Label:     Label(days),
		})
	}
	return schedule
}
