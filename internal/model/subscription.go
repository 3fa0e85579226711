package model

import (
	"time"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// 续费周期天数
var renewalPeriodDays = map[string]int{
	FrequencyDaily:   1,
	FrequencyWeekly:  7,
	FrequencyMonthly: 30,
	FrequencyYearly:  365,
}

var (
	Currencies  = []string{"USD", "EUR", "GBP"}
	Categories  = []string{"sports", "news", "entertainment", "lifestyle", "technology", "finance", "politics", "other"}
	Frequencies = []string{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}
	Statuses    = []string{SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired}
)

type Subscription struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency      string    `gorm:"size:3;default:USD" json:"currency"`
	Frequency     string    `gorm:"size:20" json:"frequency"`
	Category      string    `gorm:"size:30;not null" json:"category"`
	PaymentMethod string    `gorm:"size:50;not null" json:"payment_method"`
	Status        string    `gorm:"size:20;default:active;index" json:"status"`
	StartDate     time.Time `gorm:"not null" json:"start_date"`
	RenewalDate   time.Time `gorm:"index" json:"renewal_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// RenewalPeriodDays 返回频率对应的续费天数，未知频率返回 false
func RenewalPeriodDays(frequency string) (int, bool) {
	days, ok := renewalPeriodDays[frequency]
	return days, ok
}

// ComputeRenewalDate 以开始日期加上一个续费周期
func (s *Subscription) ComputeRenewalDate() {
	if days, ok := RenewalPeriodDays(s.Frequency); ok {
		s.RenewalDate = s.StartDate.AddDate(0, 0, days)
	}
}

// IsActive 是否处于有效状态
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

func Contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
